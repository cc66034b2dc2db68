package utils

import (
	"net/http"

	"go.uber.org/zap"
)

// RespondText 发送纯文本响应
func RespondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		zap.L().Warn("failed to write response", zap.Error(err))
	}
}

// RespondHTML 发送已渲染的HTML响应
func RespondHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		zap.L().Warn("failed to write response", zap.Error(err))
	}
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondText(w, status, message)
}
