package service

import "errors"

// ErrNotFound 记录不存在, 或者不满足查询条件(如提交已不处于待判定状态)
var ErrNotFound = errors.New("record not found")

// ErrNonTerminalStatus 判定结果只能写入终态
var ErrNonTerminalStatus = errors.New("status is not terminal")
