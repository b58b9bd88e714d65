package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/userdir/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

type loginBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenBody struct {
	Token string `json:"token"`
}

func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.apiKey != "" && c.Request().Header.Get(common.APIKeyHeaderName) != s.apiKey {
			return c.JSON(http.StatusUnauthorized, errorBody{Error: "Missing API key"})
		}
		return next(c)
	}
}

func (s *Server) listUsers(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid page"})
		}
		page = n
	}
	return c.JSON(http.StatusOK, s.users.Page(c.Request().Context(), page))
}

func (s *Server) getUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, struct{}{})
	}
	u, err := s.users.Get(c.Request().Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		return c.JSON(http.StatusNotFound, struct{}{})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"data": u})
}

func (s *Server) login(c echo.Context) error {
	var body loginBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid body"})
	}
	email := body.Email
	if email == "" {
		email = body.Username
	}

	token, err := s.users.Login(c.Request().Context(), email, body.Password)
	if err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, errorBody{Error: ve.Message})
		}
		s.logger.Error(c.Request().Context(), "login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, tokenBody{Token: token})
}
