package db

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	kvPairRegex   = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)
	kvPassword    = regexp.MustCompile(`(?i)(password=)(\S+)`)
	urlSchemeLike = regexp.MustCompile(`(?i)^postgres(ql)?://`)
)

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a lib/pq key=value list.
// It trims quotes and whitespace; key=value lists get their spacing collapsed
// and sslmode=disable when no sslmode is given.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" || urlSchemeLike.MatchString(s) {
		return s
	}
	if !kvPairRegex.MatchString(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// ToURLDSN builds a URL style DSN from a key=value list. golang-migrate only
// understands the URL form. Input that lacks host, user or dbname is returned as is.
func ToURLDSN(kvDSN string) string {
	if kvDSN == "" || urlSchemeLike.MatchString(kvDSN) {
		return kvDSN
	}
	m := parseKV(kvDSN)
	host, user, dbname := m["host"], m["user"], m["dbname"]
	if host == "" || user == "" || dbname == "" {
		return kvDSN
	}
	u := &url.URL{Scheme: "postgres", Host: host, Path: "/" + dbname}
	if port := m["port"]; port != "" {
		u.Host = host + ":" + port
	}
	if pass := m["password"]; pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	if sslm, ok := m["sslmode"]; ok {
		u.RawQuery = url.Values{"sslmode": {sslm}}.Encode()
	}
	return u.String()
}

// WithServiceKey uses key as the connection password when the DSN carries none.
// An explicit password in the DSN always wins.
func WithServiceKey(dsn, key string) string {
	if dsn == "" || key == "" {
		return dsn
	}
	if urlSchemeLike.MatchString(dsn) {
		u, err := url.Parse(dsn)
		if err != nil || u.User == nil {
			return dsn
		}
		if _, has := u.User.Password(); has {
			return dsn
		}
		u.User = url.UserPassword(u.User.Username(), key)
		return u.String()
	}
	if _, has := parseKV(dsn)["password"]; has {
		return dsn
	}
	return dsn + " password=" + key
}

// MaskDSN hides the password for logging.
func MaskDSN(dsn string) string {
	if urlSchemeLike.MatchString(dsn) {
		u, err := url.Parse(dsn)
		if err != nil {
			return "***"
		}
		return u.Redacted()
	}
	return kvPassword.ReplaceAllString(dsn, `${1}***`)
}

func parseKV(kvDSN string) map[string]string {
	m := map[string]string{}
	for _, part := range strings.Fields(kvDSN) {
		k, v, ok := strings.Cut(part, "=")
		if ok {
			m[strings.ToLower(k)] = v
		}
	}
	return m
}
