package http

import (
	"fmt"
	"net/http"
	"sync"
)

type Handler interface {
	ServeHTTP(c *Context)
	Routable
}

var _ Handler = &handlerBasedOnMap{}

// handlerBasedOnMap 基于 Map 的路由，按 method + path 精确匹配
type handlerBasedOnMap struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func (h *handlerBasedOnMap) ServeHTTP(c *Context) {
	key := h.key(c.R.Method, c.R.URL.Path)
	h.mu.RLock()
	handler, ok := h.handlers[key]
	h.mu.RUnlock()
	if ok {
		handler(c)
		return
	}
	_ = c.Write(http.StatusNotFound, []byte("Not Found"))
}

func (h *handlerBasedOnMap) Route(method, pattern string, handlerFunc HandlerFunc) {
	k := h.key(method, pattern)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[k] = handlerFunc
}

func (h *handlerBasedOnMap) key(method, pattern string) string {
	return fmt.Sprintf("%s#%s", method, pattern)
}

func NewHandlerBaseOnMap() Handler {
	return &handlerBasedOnMap{handlers: make(map[string]HandlerFunc)}
}
