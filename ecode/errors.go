package ecode

import (
	"fmt"
)

const (
	invalidMsg  = "invalid"
	notExistMsg = "does not exist"
)

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string {
	return withField(invalidMsg, k)
}

// NotExist returns not exist message
func NotExist(k ...string) string {
	return withField(notExistMsg, k)
}

func withField(msg string, k []string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], msg)
	}
	return msg
}
