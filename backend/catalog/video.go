package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var youtubeID = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// VideoID extracts the 11 character YouTube id from a lecture URL. URLs that
// do not match any known form fall back to their last path segment.
func VideoID(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if m := youtubeID.FindStringSubmatch(url); m != nil && len(m[2]) == 11 {
		return m[2]
	}
	url = strings.TrimRight(url, "/")
	return url[strings.LastIndex(url, "/")+1:]
}

// HumanizeMinutes renders a minute count as "2 hours, 5 minutes".
func HumanizeMinutes(minutes int) string {
	if minutes <= 0 {
		return "0 minutes"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return plural(m, "minute")
	case m == 0:
		return plural(h, "hour")
	}
	return plural(h, "hour") + ", " + plural(m, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
