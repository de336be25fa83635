// Package resp writes JSON response envelopes. Successful responses carry the
// data as the body; failures carry {code, message, errors} with a business
// code from ecode.
//
//	resp.Success(w, page)
//	resp.Fail(w, resp.WithCode(ecode.MalformedFilter, "", err.Error()))
package resp
