package config

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"
)

func envStr(k, d string) string {
    if v := strings.TrimSpace(os.Getenv(k)); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) (bool, error) {
    v := strings.TrimSpace(os.Getenv(k))
    if v == "" {
        return d, nil
    }
    switch strings.ToLower(v) {
    case "1", "true", "yes", "on":
        return true, nil
    case "0", "false", "no", "off":
        return false, nil
    }
    return d, fmt.Errorf("invalid bool for %s: %q", k, v)
}

func envInt(k string, d int) (int, error) {
    v := strings.TrimSpace(os.Getenv(k))
    if v == "" {
        return d, nil
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return d, fmt.Errorf("invalid int for %s: %q", k, v)
    }
    return n, nil
}

func envDur(k string, d time.Duration) (time.Duration, error) {
    v := strings.TrimSpace(os.Getenv(k))
    if v == "" {
        return d, nil
    }
    dur, err := time.ParseDuration(v)
    if err != nil {
        return d, fmt.Errorf("invalid duration for %s: %q", k, v)
    }
    return dur, nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
