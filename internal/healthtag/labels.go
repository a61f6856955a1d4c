package healthtag

import "strings"

// TagInfo is one entry of health_tags_info.json.
type TagInfo struct {
	Label string `json:"label"`
}

// defaultLabels describe what each tag supports, used to build the
// "phù hợp với" line in answers. health_tags_info.json may override them.
var defaultLabels = map[string]string{
	"tieu_duong": "hỗ trợ ổn định đường huyết, tiểu đường",
	"tieu_hoa":   "hỗ trợ tiêu hóa, đường ruột",
	"gan":        "hỗ trợ chức năng gan, thải độc gan",
	"thai_doc":   "thải độc, giải độc cơ thể",
	"mien_dich":  "tăng cường hệ miễn dịch",
	"tim_mach":   "hỗ trợ tim mạch, huyết áp",
	"xuong_khop": "hỗ trợ xương khớp, giảm đau khớp",
	"than":       "hỗ trợ thận – tiết niệu",
	"ung_thu":    "hỗ trợ bệnh lý/u bướu, ung thư (kết hợp phác đồ)",
	"giam_mo":    "giảm mỡ, kiểm soát cân nặng",
}

// LabelSet resolves tags to human-readable Vietnamese labels.
type LabelSet struct {
	labels map[string]string
}

// NewLabelSet starts from the built-in labels and applies overrides from
// health_tags_info.json. overrides may be nil.
func NewLabelSet(overrides map[string]TagInfo) *LabelSet {
	labels := make(map[string]string, len(defaultLabels))
	for tag, label := range defaultLabels {
		labels[tag] = label
	}
	for tag, info := range overrides {
		if lbl := strings.TrimSpace(info.Label); lbl != "" {
			labels[tag] = lbl
		}
	}
	return &LabelSet{labels: labels}
}

// Describe joins the labels of the given tags with "; ", skipping unknown
// tags and duplicates. Returns "" when nothing resolves.
func (l *LabelSet) Describe(tags []string) string {
	var out []string
	seen := make(map[string]struct{})
	for _, tag := range tags {
		lbl, ok := l.labels[tag]
		if !ok {
			continue
		}
		if _, dup := seen[lbl]; dup {
			continue
		}
		seen[lbl] = struct{}{}
		out = append(out, lbl)
	}
	return strings.Join(out, "; ")
}
