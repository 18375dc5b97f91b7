package types

// FilterAll resets a source or status filter to the full collection.
const FilterAll = "all"

// Order workflow statuses
const (
	StatusNew        = "new"
	StatusResponded  = "responded"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// StatusOrder is the fixed rendering order for the status selector.
var StatusOrder = []string{
	StatusNew,
	StatusResponded,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// StatusLabels maps a status to its display label.
var StatusLabels = map[string]string{
	StatusNew:        "🆕 Новый",
	StatusResponded:  "✉️ Откликнулся",
	StatusInProgress: "⚙️ В работе",
	StatusCompleted:  "✅ Завершён",
	StatusCancelled:  "❌ Отменён",
}

// ValidStatuses lists valid order statuses.
var ValidStatuses = map[string]struct{}{
	StatusNew:        {},
	StatusResponded:  {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// StatusLabel returns the display label for a status, falling back to the raw
// value for statuses the client does not know about.
func StatusLabel(status string) string {
	if label, ok := StatusLabels[status]; ok {
		return label
	}
	return status
}

// CategoryOrder is the fixed enum order for the category grid. Membership
// logic is order-insensitive; rendering always iterates this slice.
var CategoryOrder = []string{
	"python",
	"web",
	"design",
	"copywriting",
	"mobile",
	"marketing",
	"data",
	"devops",
}

// CategoryLabels maps a category key to its display label.
var CategoryLabels = map[string]string{
	"python":      "🐍 Python",
	"web":         "🌐 Веб",
	"design":      "🎨 Дизайн",
	"copywriting": "✍️ Копирайтинг",
	"mobile":      "📱 Мобильные",
	"marketing":   "📊 Маркетинг",
	"data":        "📈 Данные",
	"devops":      "⚙️ DevOps",
}

// SourceOrder is the fixed rendering order for the feed filter chips.
var SourceOrder = []string{
	"kwork",
	"fl",
	"habr",
	"hh",
	"telegram",
	"freelance_ru",
	"weblancer",
}

// SourceMarkers maps a feed source to its colored marker.
var SourceMarkers = map[string]string{
	"kwork":        "🟢",
	"fl":           "🔵",
	"habr":         "🟠",
	"hh":           "🔴",
	"telegram":     "✈️",
	"freelance_ru": "🟡",
	"weblancer":    "🟣",
}

// SourceMarker returns the marker for a source, with a generic pin for
// sources the client does not know about.
func SourceMarker(source string) string {
	if marker, ok := SourceMarkers[source]; ok {
		return marker
	}
	return "📌"
}
