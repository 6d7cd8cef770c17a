// Package httpgate adapts the authorization engine to an HTTP request
// pipeline: a gin middleware resolves the current principal and page,
// runs the request-level check, and turns denial into a 403 response.
package httpgate

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/contentgate/internal/audit"
	"github.com/ppiankov/contentgate/internal/config"
	"github.com/ppiankov/contentgate/internal/content"
	"github.com/ppiankov/contentgate/internal/enforce"
	"github.com/ppiankov/contentgate/internal/permission"
	"github.com/ppiankov/contentgate/internal/security"
)

// Principal headers consumed by the middleware. Identity resolution
// proper is upstream (a proxy or auth layer); the gate trusts these.
const (
	HeaderPrincipal = "X-Principal"
	HeaderRoles     = "X-Principal-Roles"
)

// Gate wires the security manager, the enforcer, and the demo content
// tree into a gin engine.
type Gate struct {
	security *security.Manager
	enforcer *enforce.Enforcer
	bus      *content.Bus
	tree     *Tree
	auditLog *audit.Log

	configPath string

	mu         sync.RWMutex
	configHash string
}

// New builds a Gate from the security config at configPath. An empty
// auditPath disables decision logging.
func New(configPath, auditPath string, tree *Tree) (*Gate, error) {
	cfg, hash, err := config.LoadWithHash(configPath)
	if err != nil {
		return nil, err
	}
	sec, err := cfg.BuildManager()
	if err != nil {
		return nil, err
	}

	bus := content.NewBus()
	g := &Gate{
		security:   sec,
		enforcer:   enforce.New(sec, bus),
		bus:        bus,
		tree:       tree,
		configPath: configPath,
		configHash: hash,
	}
	g.enforcer.Start()

	if auditPath != "" {
		log, err := audit.Open(auditPath)
		if err != nil {
			return nil, err
		}
		g.auditLog = log
	}
	return g, nil
}

// Security exposes the manager, e.g. for the kill switch.
func (g *Gate) Security() *security.Manager { return g.security }

// Enforcer exposes the enforcer for observer registration.
func (g *Gate) Enforcer() *enforce.Enforcer { return g.enforcer }

// ConfigHash returns the hash of the currently loaded config.
func (g *Gate) ConfigHash() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.configHash
}

// Reload re-reads the config file and atomically swaps the role maps and
// remap registry. Readers mid-check keep the snapshot they started with.
func (g *Gate) Reload() error {
	cfg, hash, err := config.LoadWithHash(g.configPath)
	if err != nil {
		return err
	}
	remaps, err := cfg.BuildRemaps()
	if err != nil {
		return err
	}
	g.security.ReplaceMaps(cfg.BuildMaps())
	g.security.ReplaceRemaps(remaps)

	g.mu.Lock()
	g.configHash = hash
	g.mu.Unlock()
	return nil
}

// Close releases the audit log.
func (g *Gate) Close() error {
	g.enforcer.Stop()
	if g.auditLog != nil {
		return g.auditLog.Close()
	}
	return nil
}

// Router builds the gin engine: the decision API plus the content tree
// behind the authorization middleware.
func (g *Gate) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/v1/check", g.handleCheck)
	r.GET("/v1/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"config_hash": g.ConfigHash()})
	})

	guarded := r.Group("/content", g.Authorize())
	guarded.GET("/*path", g.handleView)
	guarded.PUT("/*path", g.handleSave)
	guarded.DELETE("/*path", g.handleDelete)

	return r
}

// Authorize is the request-pipeline middleware: it threads the principal
// into the request context, resolves the current page, and runs the
// page-view check. Denial (uncancelled) aborts with 403.
func (g *Gate) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principalFromRequest(c.Request)
		ctx := content.WithPrincipal(c.Request.Context(), p)
		c.Request = c.Request.WithContext(ctx)

		page := g.tree.Resolve(c.Param("path"))
		err := g.enforcer.AuthorizeRequest(ctx, page, p)
		if page != nil {
			g.record(p, page, "view", err)
		}
		if err != nil {
			var denied *enforce.PermissionDeniedError
			if errors.As(err, &denied) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"blocked":   true,
					"item":      denied.Item.Path(),
					"principal": p.Name,
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func (g *Gate) handleView(c *gin.Context) {
	page := g.tree.Resolve(c.Param("path"))
	if page == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such item"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// handleSave routes the mutation through the persistence bus so the
// enforcer's saving hook gates it exactly like a real save.
func (g *Gate) handleSave(c *gin.Context) {
	ctx := c.Request.Context()
	p := content.PrincipalFrom(ctx)
	item := g.tree.Resolve(c.Param("path"))
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such item"})
		return
	}
	err := g.bus.EmitSaving(ctx, item)
	g.record(p, item, "save", err)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"blocked": true, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": item.Path(), "saved_by": item.SavedBy()})
}

func (g *Gate) handleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	p := content.PrincipalFrom(ctx)
	item := g.tree.Resolve(c.Param("path"))
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such item"})
		return
	}
	err := g.bus.EmitDeleting(ctx, item)
	g.record(p, item, "delete", err)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"blocked": true, "error": err.Error()})
		return
	}
	g.tree.Remove(item.Path())
	c.JSON(http.StatusOK, gin.H{"deleted": item.Path()})
}

// checkRequest is the decision-API payload: the same shape scenario
// files use, evaluated against the live configuration.
type checkRequest struct {
	Principal content.Principal `json:"principal"`
	Item      content.Node      `json:"item"`
	Requested string            `json:"requested"`
}

func (g *Gate) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requested, err := permission.Parse(strings.ToLower(req.Requested))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := content.WithPrincipal(c.Request.Context(), req.Principal)
	granted := g.security.IsGranted(ctx, req.Principal, &req.Item, requested)

	decision := "deny"
	if granted {
		decision = "allow"
	}
	if g.auditLog != nil {
		_ = g.auditLog.Record(audit.Entry{
			Principal:  req.Principal.Name,
			Item:       req.Item.NodePath,
			Operation:  requested.String(),
			Decision:   decision,
			ConfigHash: g.ConfigHash(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"decision":    decision,
		"config_hash": g.ConfigHash(),
	})
}

// record writes one enforcement outcome to the decision log, if enabled.
func (g *Gate) record(p content.Principal, item content.Item, op string, err error) {
	if g.auditLog == nil {
		return
	}
	decision := audit.DecisionAllowed
	reason := ""
	if err != nil {
		decision = audit.DecisionDenied
		reason = err.Error()
	}
	_ = g.auditLog.Record(audit.Entry{
		Principal:  p.Name,
		Item:       item.Path(),
		Operation:  op,
		Decision:   decision,
		Reason:     reason,
		ConfigHash: g.ConfigHash(),
	})
}

// principalFromRequest maps trusted identity headers to a Principal.
// No header means the anonymous principal.
func principalFromRequest(r *http.Request) content.Principal {
	name := r.Header.Get(HeaderPrincipal)
	if name == "" {
		return content.Anonymous()
	}
	var roles []string
	if raw := r.Header.Get(HeaderRoles); raw != "" {
		for _, role := range strings.Split(raw, ",") {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}
	}
	return content.Principal{Name: name, Roles: roles, Authenticated: true}
}
