package api

import (
	"log/slog"
	"net/http"
	"strings"

	"treefs/internal/core"
	"treefs/internal/server/service"

	"github.com/jmgilman/go/errors"
	"github.com/labstack/echo/v4"
)

// Handler contains the HTTP handlers for the treefs API.
type Handler struct {
	svc *service.TreeService
}

// NewHandler creates a new handler with the given service dependency.
func NewHandler(svc *service.TreeService) *Handler {
	return &Handler{svc: svc}
}

type changeDirectoryRequest struct {
	Path string `json:"path"`
}

type createRequest struct {
	Dir  string `json:"dir"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type moveRequest struct {
	Dir         string `json:"dir"`
	Name        string `json:"name"`
	Destination string `json:"destination"`
}

type sortRequest struct {
	Dir   string `json:"dir"`
	Order string `json:"order"`
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "healthy",
	})
}

// HandleStats handles GET /api/stats.
func (h *Handler) HandleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Stats())
}

// HandlePwd handles GET /api/pwd.
func (h *Handler) HandlePwd(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"path": h.svc.CurrentPath()})
}

// HandleChangeDirectory handles POST /api/cd.
// Moves the shared cursor to an absolute directory path.
func (h *Handler) HandleChangeDirectory(c echo.Context) error {
	var req changeDirectoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	path, err := h.svc.ChangeDirectory(req.Path)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"path": path})
}

// HandleList handles GET /api/ls.
// Lists the directory given by the "dir" query param, or the cursor.
func (h *Handler) HandleList(c echo.Context) error {
	listing, err := h.svc.List(c.QueryParam("dir"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, listing)
}

// HandleCreate handles POST /api/entries.
func (h *Handler) HandleCreate(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	kind, err := core.ParseKind(req.Kind)
	if err != nil {
		return mapServiceError(c, err)
	}

	entry, err := h.svc.Create(req.Dir, req.Name, kind)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// HandleDelete handles DELETE /api/entries/:name.
// Deletes a child of the "dir" query param directory, or of the cursor.
func (h *Handler) HandleDelete(c echo.Context) error {
	name := c.Param("name")

	if err := h.svc.Delete(c.QueryParam("dir"), name); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "deleted " + name,
	})
}

// HandleMove handles POST /api/move.
func (h *Handler) HandleMove(c echo.Context) error {
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	entry, err := h.svc.Move(req.Dir, req.Name, req.Destination)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// HandleSort handles POST /api/sort.
func (h *Handler) HandleSort(c echo.Context) error {
	var req sortRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	order, err := core.ParseSortOrder(req.Order)
	if err != nil {
		return mapServiceError(c, err)
	}
	if err := h.svc.Sort(req.Dir, order); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order.String()})
}

// HandleFind handles GET /api/find?name=.
func (h *Handler) HandleFind(c echo.Context) error {
	entry, err := h.svc.Find(c.QueryParam("name"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// HandleStat handles GET /api/stat?path=.
func (h *Handler) HandleStat(c echo.Context) error {
	entry, err := h.svc.Stat(c.QueryParam("path"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// HandleGlob handles GET /api/glob?pattern=.
func (h *Handler) HandleGlob(c echo.Context) error {
	entries, err := h.svc.Glob(c.QueryParam("pattern"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// HandleTree handles GET /api/tree.
// Returns the indented rendering as plain text.
func (h *Handler) HandleTree(c echo.Context) error {
	return c.String(http.StatusOK, strings.Join(h.svc.Tree(), "\n")+"\n")
}

// HandleSnapshot handles GET /api/snapshot.
func (h *Handler) HandleSnapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Snapshot())
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errors.ToJSON(errors.New(errors.CodeInvalidInput, message)))
}

// mapServiceError translates coded tree errors into HTTP responses.
func mapServiceError(c echo.Context, err error) error {
	body := errors.ToJSON(err)

	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		body.Message = validationErr.Error()
	}

	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return c.JSON(http.StatusNotFound, body)
	case errors.CodeAlreadyExists:
		return c.JSON(http.StatusConflict, body)
	case errors.CodeInvalidInput:
		return c.JSON(http.StatusBadRequest, body)
	default:
		slog.Error("unexpected service error", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
