package schedule

import "context"

// Task 由 Runner 周期调用, Run 返回的错误不会中断调度
type Task interface {
	Run(ctx context.Context) error
	Name() string
}
