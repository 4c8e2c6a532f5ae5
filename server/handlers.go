package server

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cvhariharan/actordir/directory"
	"github.com/cvhariharan/actordir/models"
)

const welcome = "Welcome to actordir! Actors are discoverable at /.well-known/webfinger."

type createUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Summary     string `json:"summary"`
}

func (s *Server) index(c echo.Context) error {
	return c.String(http.StatusOK, welcome)
}

func (s *Server) metricsSnapshot(c echo.Context) error {
	snap, err := s.window.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (s *Server) webfinger(c echo.Context) error {
	doc, err := s.resolver.Resolve(c.Request().Context(), c.QueryParam("resource"))
	if err != nil {
		return err
	}
	return blob(c, http.StatusOK, models.JRDJSON, doc)
}

func (s *Server) createUser(c echo.Context) error {
	var req createUserRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	rec, err := s.dir.CreateActor(c.Request().Context(), req.Username, req.DisplayName, req.Summary)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, directory.ProjectToPublicProfile(rec))
}

func (s *Server) actor(c echo.Context) error {
	rec, err := s.dir.GetActor(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return blob(c, http.StatusOK, models.ActivityJSON, directory.ProjectToPublicProfile(rec))
}

func blob(c echo.Context, code int, contentType string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Blob(code, contentType, body)
}
