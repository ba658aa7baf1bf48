package webserver

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

const (
	sessionName = "storefront"
	cartIDKey   = "cart_id"
)

// getSession a cookie that no longer decodes (e.g. after a secret change)
// yields a fresh session rather than an error
func getSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(sessionName, c)
	if sess != nil {
		return sess, nil
	}
	return nil, err
}

// SessionCartID returns the cart id stored in the visitor's session, "" if none
func SessionCartID(c echo.Context) string {
	sess, err := getSession(c)
	if err != nil {
		return ""
	}
	return cast.ToString(sess.Values[cartIDKey])
}

// SetSessionCartID remembers the visitor's cart id in the session cookie
func SetSessionCartID(c echo.Context, cartID string) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	if cast.ToString(sess.Values[cartIDKey]) == cartID {
		return nil
	}
	sess.Values[cartIDKey] = cartID
	return sess.Save(c.Request(), c.Response())
}
