package util

import "encoding/json"

// ServerMessage 从错误响应体中提取服务端描述信息
func ServerMessage(body []byte) string {
	var msg struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &msg); err == nil {
		if msg.Message != "" {
			return msg.Message
		}
		if msg.Error != "" {
			return msg.Error
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
