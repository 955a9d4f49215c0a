package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExamNotFound       = errors.New("exam not found")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrBankQuestionNotFound = errors.New("bank question not found")
	ErrBankFileInvalid      = errors.New("invalid question bank file")
	ErrBankInsufficient     = errors.New("not enough questions in bank for this distribution")
)
