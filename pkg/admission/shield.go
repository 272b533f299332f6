package admission

import (
	"net/http"
	"strings"
)

// attackSignatures are lowercase substrings matched against the request path
// and query. Deliberately coarse: the goal is to drop obvious probe traffic
// at the perimeter, not to be a WAF.
var attackSignatures = []string{
	"../",
	"..%2f",
	"%2e%2e/",
	"/etc/passwd",
	"union select",
	"union+select",
	"union%20select",
	"<script",
	"%3cscript",
	"javascript:",
	"' or '1'='1",
	"sleep(",
	"benchmark(",
	"/wp-admin",
	"/phpmyadmin",
	".env",
	"cmd.exe",
	"/bin/sh",
}

func matchesAttackSignature(r *http.Request) bool {
	target := strings.ToLower(r.URL.Path)
	if q := r.URL.RawQuery; q != "" {
		target += "?" + strings.ToLower(q)
	}

	for _, sig := range attackSignatures {
		if strings.Contains(target, sig) {
			return true
		}
	}
	return false
}
