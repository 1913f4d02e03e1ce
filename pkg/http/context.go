package http

import (
	"encoding/json"
	"github.com/pkg/errors"
	"io"
	"net/http"
)

type Context struct {
	W http.ResponseWriter
	R *http.Request

	status int
}

func NewContext(writer http.ResponseWriter, request *http.Request) *Context {
	return &Context{
		W: writer,
		R: request,
	}
}

// Status 返回已写出的状态码，未写出时为 0
func (c *Context) Status() int {
	return c.status
}

func (c *Context) ReadJSON(obj interface{}) error {
	body, err := io.ReadAll(c.R.Body)
	if err != nil {
		return errors.Wrap(err, "read request body")
	}
	if err := json.Unmarshal(body, obj); err != nil {
		return errors.Wrapf(err, "decode request body %s", string(body))
	}
	return nil
}

func (c *Context) WriteJSON(code int, obj interface{}) error {

	j, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	c.W.Header().Set("Content-Type", "application/json")
	return c.Write(code, j)
}

// Write 直接写出原始响应体
func (c *Context) Write(code int, body []byte) error {
	c.status = code
	c.W.WriteHeader(code)
	_, err := c.W.Write(body)
	return err
}

func (c *Context) StatusOK(obj interface{}) error {
	return c.WriteJSON(http.StatusOK, obj)
}

func (c *Context) StatusInternalServerError(obj interface{}) error {
	return c.WriteJSON(http.StatusInternalServerError, obj)
}

func (c *Context) StatusBadRequest(obj interface{}) error {
	return c.WriteJSON(http.StatusBadRequest, obj)
}
