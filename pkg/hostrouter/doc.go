// Package hostrouter dispatches HTTP requests by Host header, so one
// listener can serve the web app, an uploads host, and per-tenant
// subdomains with separate handler trees.
//
// Patterns are exact hosts ("uploads.acme.com") or single-level
// wildcards ("*.acme.com", which matches foo.acme.com but neither
// acme.com nor a.b.acme.com). Exact entries win over wildcards, and
// anything unmatched lands on the fallback handler. Matching ignores
// case and the port; bracketed IPv6 literals work as hosts.
//
//	router := hostrouter.New(hostrouter.Routes{
//	    "uploads.acme.com": uploadsApp,
//	    "*.acme.com":       tenantApp,
//	}, webApp)
//	http.ListenAndServe(":8080", router)
//
// Apps built with this framework usually wire the same thing through
// the run option instead:
//
//	err := intake.Run(webApp, intake.Domain("uploads.acme.com", uploadsApp))
//
// [GetDomain] and [GetSubdomain] expose the same normalization to
// handlers, e.g. for resolving "acme" out of acme.files.example.com as
// the tenant.
package hostrouter
