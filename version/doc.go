// Package version reports build information of the gqltable binary.
//
// Set the variables at build time:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/gqltable/version.Version=1.2.3 \
//	  -X github.com/ncobase/gqltable/version.Revision=abc1234 \
//	  -X 'github.com/ncobase/gqltable/version.BuiltAt=$(date)'"
//
// Unset values fall back to the VCS stamps of the module build info.
package version
