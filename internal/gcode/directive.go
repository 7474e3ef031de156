package gcode

import (
	"strconv"
	"strings"
)

const estimatorAddTimePrefix = "ESTIMATOR_ADD_TIME"

// parseEstimatorAddTime recognizes "; ESTIMATOR_ADD_TIME <seconds> [label]"
// (§4.5, §6). The prefix match is case-sensitive; seconds must be a
// non-negative decimal; the remainder of the line is the optional label.
func parseEstimatorAddTime(comment string) (seconds float64, label string, ok bool) {
	body := trimCommentPrefix(comment)
	if !strings.HasPrefix(body, estimatorAddTimePrefix) {
		return 0, "", false
	}
	rest := strings.TrimSpace(body[len(estimatorAddTimePrefix):])
	if rest == "" {
		return 0, "", false
	}
	fields := strings.SplitN(rest, " ", 2)
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || v < 0 {
		return 0, "", false
	}
	if len(fields) == 2 {
		label = strings.TrimSpace(fields[1])
	}
	return v, label, true
}

// typeMarkerPrefixes are the slicer-comment spellings that set the current
// move kind (e.g. "TYPE:WALL-OUTER", ";TYPE:FILL").
var typeMarkerPrefixes = []string{"TYPE:", "TYPE :"}

func parseTypeMarker(comment string) (kind string, ok bool) {
	body := trimCommentPrefix(comment)
	upper := strings.ToUpper(body)
	for _, prefix := range typeMarkerPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return strings.TrimSpace(body[len(prefix):]), true
		}
	}
	return "", false
}

// parseLayerMarker recognizes "LAYER:<n>" and "LAYER_CHANGE" comments.
// LAYER_CHANGE alone increments the layer counter by one; LAYER:<n> sets it
// to the given absolute value.
func parseLayerMarker(comment string) (layer int, isChange bool, ok bool) {
	body := strings.ToUpper(trimCommentPrefix(comment))
	switch {
	case body == "LAYER_CHANGE":
		return 0, true, true
	case strings.HasPrefix(body, "LAYER:"):
		n, err := strconv.Atoi(strings.TrimSpace(body[len("LAYER:"):]))
		if err != nil {
			return 0, false, false
		}
		return n, false, true
	default:
		return 0, false, false
	}
}
