package lease

import (
	"context"
	"errors"
)

// ErrNotHeld 释放或续期时租约已不属于当前实例
var ErrNotHeld = errors.New("lease not held")

// Lease 保证同一时刻只有一个实例消费提交队列
type Lease interface {
	// Acquire 阻塞直到获得租约或 ctx 结束
	Acquire(ctx context.Context) error
	// Release 主动释放租约
	Release(ctx context.Context) error
	// Lost 租约丢失后关闭, 未获得租约前返回的 channel 永不关闭
	Lost() <-chan struct{}
}

// NopLease 单实例部署时使用, 总是立即获得
type NopLease struct{}

var _ Lease = NopLease{}

func (NopLease) Acquire(context.Context) error { return nil }

func (NopLease) Release(context.Context) error { return nil }

func (NopLease) Lost() <-chan struct{} { return nil }
