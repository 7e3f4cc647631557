package util

import "strconv"

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

// ParseFloatDefault parses string to float64 or returns default if empty/invalid.
func ParseFloatDefault(s string, def float64) float64 {
    if s == "" {
        return def
    }
    v, err := strconv.ParseFloat(s, 64)
    if err != nil {
        return def
    }
    return v
}

// ParseBoolDefault parses "true"/"false" (and 1/0) or returns default.
func ParseBoolDefault(s string, def bool) bool {
    if s == "" {
        return def
    }
    v, err := strconv.ParseBool(s)
    if err != nil {
        return def
    }
    return v
}
