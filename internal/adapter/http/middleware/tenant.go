package middleware

import (
	"context"
	"net/http"
)

// TenantIDHeader carries the tenant every request acts for. The accounting
// API itself performs no authentication; the upstream gateway resolves the
// session to a tenant before requests reach it.
const TenantIDHeader = "X-Tenant-ID"

type tenantContextKey struct{}

// Tenant rejects requests without a tenant header and stores the tenant ID
// in the request context.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(TenantIDHeader)
		if tenantID == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"missing tenant"}`))
			return
		}

		ctx := context.WithValue(r.Context(), tenantContextKey{}, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TenantFromContext returns the tenant ID stored by the Tenant middleware.
func TenantFromContext(ctx context.Context) string {
	tenantID, _ := ctx.Value(tenantContextKey{}).(string)
	return tenantID
}
