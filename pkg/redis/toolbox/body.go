package toolbox

// requestBody 请求体构造器，只写入有值的字段：服务端区分“缺少 key”与“空值”
type requestBody map[string]interface{}

func newRequestBody() requestBody {
	return requestBody{}
}

func (b requestBody) with(key string, value interface{}) requestBody {
	b[key] = value
	return b
}

func (b requestBody) withString(key, value string) requestBody {
	if value != "" {
		b[key] = value
	}
	return b
}

func (b requestBody) withInt(key string, value *int) requestBody {
	if value != nil {
		b[key] = *value
	}
	return b
}

func (b requestBody) withStrings(key string, values []string) requestBody {
	if values == nil {
		values = []string{}
	}
	b[key] = values
	return b
}
