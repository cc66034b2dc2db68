package wish

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	wishModel "github.com/zhouzirui/wish-santa/backend/internal/model/wish"
	"github.com/zhouzirui/wish-santa/backend/internal/service/assignment"
	"github.com/zhouzirui/wish-santa/backend/pkg/utils"
)

const (
	forwardedForHeader = "X-Forwarded-For"
	remoteAddrHeader   = "RemoteAddr"
	unknownIdentity    = "Unknown"

	exhaustedMessage = "No more wishes available."
)

var pageTemplate = template.Must(template.New("wish").Parse(`<html>
<body style="text-align: center; font-family: Arial, sans-serif;">
<h1>Secret Santa Wish</h1>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Trigram:</strong> {{.Trigram}}</p>
<p><strong>Wish:</strong></p>
<h2 style="color: green;">{{.Wish}}</h2>
<button onclick="window.location.reload()">Click Me Again</button>
</body>
</html>
`))

// Assigner hands out one wish per identity.
type Assigner interface {
	GetOrAssign(ctx context.Context, identity string) (wishModel.Wish, error)
}

// Handler 心愿页面的HTTP处理器
type Handler struct {
	assigner Assigner
	logger   *zap.Logger
}

// New 创建心愿处理器
func New(assigner Assigner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		assigner: assigner,
		logger:   logger,
	}
}

// RegisterRoutes 注册心愿页面路由，不区分请求方法
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/", h.handleWish)
}

// handleWish 查找或分配当前访客的心愿并渲染页面
func (h *Handler) handleWish(w http.ResponseWriter, r *http.Request) {
	identity := clientIdentity(r)

	assigned, err := h.assigner.GetOrAssign(r.Context(), identity)
	if err != nil {
		if errors.Is(err, assignment.ErrPoolExhausted) {
			utils.RespondError(w, http.StatusInternalServerError, exhaustedMessage)
			return
		}
		h.logger.Error("assignment failed", zap.String("identity", identity), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, assigned); err != nil {
		h.logger.Error("render wish page", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.RespondHTML(w, http.StatusOK, buf.Bytes())
}

// clientIdentity derives the visitor key from request headers. The RemoteAddr
// header is whatever the caller sent, not the transport address.
func clientIdentity(r *http.Request) string {
	if identity := strings.TrimSpace(r.Header.Get(forwardedForHeader)); identity != "" {
		return identity
	}
	if identity := strings.TrimSpace(r.Header.Get(remoteAddrHeader)); identity != "" {
		return identity
	}
	return unknownIdentity
}
