// Package tickets 声明单据模块的前端路由。
package tickets

import (
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Translator 将文案 key 翻译为当前语言
type Translator func(key string) string

// ComponentLoader 按需返回路由对应的页面组件
type ComponentLoader func() string

type Meta struct {
	NavName    string `json:"navName"`
	Fullscreen bool   `json:"fullscreen"`
}

type Route struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Meta      Meta            `json:"meta"`
	Component ComponentLoader `json:"-"`
}

func lazy(view string) ComponentLoader {
	return func() string {
		return view
	}
}

var routes = []Route{
	{
		Name: "SelfServiceMyTickets",
		Path: "my-tickets/:typeId?",
		Meta: Meta{
			NavName:    "单据",
			Fullscreen: true,
		},
		Component: lazy("@views/tickets/my-tickets/Index.vue"),
	},
	{
		Name: "MyTodos",
		Path: "my-todos",
		Meta: Meta{
			NavName:    "我的待办",
			Fullscreen: true,
		},
		Component: lazy("@views/tickets/my-todos/Index.vue"),
	},
}

// GetRoutes 返回路由表的副本
func GetRoutes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Localized 返回 NavName 经过 t 翻译后的路由表，t 为空时原样返回
func Localized(t Translator) []Route {
	out := GetRoutes()
	if t == nil {
		return out
	}
	for i := range out {
		out[i].Meta.NavName = t(out[i].Meta.NavName)
	}
	return out
}

// Validate 校验路由名称唯一且路径、组件不为空
func Validate(rs []Route) error {
	names := sets.NewString()
	for _, r := range rs {
		if r.Name == "" || r.Path == "" {
			return errors.Errorf("route %q has empty name or path", r.Name)
		}
		if r.Component == nil {
			return errors.Errorf("route %s has no component", r.Name)
		}
		if names.Has(r.Name) {
			return errors.Errorf("duplicate route name %s", r.Name)
		}
		names.Insert(r.Name)
	}
	return nil
}
