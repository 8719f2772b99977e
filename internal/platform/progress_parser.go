package platform

import (
	"regexp"
	"strconv"
)

// itemProgressPattern matches yt-dlp playlist log lines such as
// "[download] Downloading item 3 of 120". Older releases print "video"
// instead of "item".
var itemProgressPattern = regexp.MustCompile(`Downloading (?:item|video) (\d+) of (\d+)`)

// ParseItemProgress extracts (current, total) from a yt-dlp log line. It is
// the only place that knows the log format; callers depend on the integers.
func ParseItemProgress(line string) (current, total int, ok bool) {
	m := itemProgressPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}

	current, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.Atoi(m[2])
	if err != nil || total <= 0 || current > total {
		return 0, 0, false
	}

	return current, total, true
}
