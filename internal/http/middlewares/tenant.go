package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// TenantResolver extrae el tenant objetivo de la request ("" si no hay).
type TenantResolver func(r *http.Request) string

// URLParamResolver lee el tenant de un parámetro de ruta chi.
func URLParamResolver(name string) TenantResolver {
	return func(r *http.Request) string {
		return strings.TrimSpace(chi.URLParam(r, name))
	}
}

// HeaderResolver lee el tenant de un header (p.ej. X-Tenant-ID).
func HeaderResolver(name string) TenantResolver {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(name))
	}
}

// ChainResolvers prueba los resolvers en orden y devuelve el primero no vacío.
func ChainResolvers(resolvers ...TenantResolver) TenantResolver {
	return func(r *http.Request) string {
		for _, res := range resolvers {
			if res == nil {
				continue
			}
			if v := res(r); v != "" {
				return v
			}
		}
		return ""
	}
}
