package concurrency

import (
	"sync"
)

// WaitGroup 带并发上限的 WaitGroup，并记录第一个失败任务的错误
type WaitGroup struct {
	size      int
	pool      chan struct{}
	waitGroup sync.WaitGroup

	errOnce sync.Once
	err     error
}

// NewWaitGroup 创建一个带有size的并发池 当size为<=0时，不限制并发
func NewWaitGroup(size int) *WaitGroup {
	wg := &WaitGroup{
		size: size,
	}
	if size > 0 {
		wg.pool = make(chan struct{}, size)
	}
	return wg
}

// Go 在并发池有空位时启动 f，池满时阻塞调用方
func (wg *WaitGroup) Go(f func() error) {
	wg.blockAdd()
	go func() {
		defer wg.done()
		if err := f(); err != nil {
			wg.errOnce.Do(func() {
				wg.err = err
			})
		}
	}()
}

// Wait 等待所有任务结束，返回第一个失败任务的错误
func (wg *WaitGroup) Wait() error {
	wg.waitGroup.Wait()
	return wg.err
}

func (wg *WaitGroup) blockAdd() {
	if wg.size > 0 {
		wg.pool <- struct{}{}
	}
	wg.waitGroup.Add(1)
}

func (wg *WaitGroup) done() {
	if wg.size > 0 {
		<-wg.pool
	}
	wg.waitGroup.Done()
}
