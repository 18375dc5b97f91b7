package tui

import (
	"strconv"
	"sync"

	"github.com/lancehub/lancecli/internal/api"
	"github.com/lancehub/lancecli/internal/types"
)

// Profile form fields, in navigation order. The category grid sits below the
// text fields.
const (
	profileFieldName = iota
	profileFieldBio
	profileFieldPortfolio
	profileFieldRate
	profileFieldExperience
	profileFieldCategories
	profileFieldCount
)

// ProfileState holds the authoritative local profile copy plus the editable
// form buffers. The form is re-populated from the server copy on every load,
// so a successful save always shows persisted values, not local ones.
type ProfileState struct {
	mu sync.RWMutex

	profile *types.Profile

	// Form buffers
	name       string
	bio        string
	portfolio  string
	rate       string
	experience string

	field    int // Selected form field
	catIndex int // Selected category in the grid
	cursor   int // Cursor position in the selected text field
}

// NewProfileState creates an empty profile state.
func NewProfileState() *ProfileState {
	return &ProfileState{}
}

// SetProfile replaces the local copy and reloads the form buffers from it.
func (s *ProfileState) SetProfile(p *types.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	if p == nil {
		return
	}
	s.name = p.FullName
	s.bio = p.Bio
	s.portfolio = p.PortfolioURL
	s.rate = floatField(p.HourlyRate)
	s.experience = floatField(p.ExperienceYears)
	s.cursor = len(s.currentFieldLocked())
}

// Profile returns the current local copy (may be nil before the first load).
func (s *ProfileState) Profile() *types.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetCategories replaces the category set on the local copy (optimistic
// update before the persistence round trip resolves).
func (s *ProfileState) SetCategories(categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile != nil {
		s.profile.Categories = categories
	}
}

// SetParserActive sets the parser flag from a server-confirmed value.
func (s *ProfileState) SetParserActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile != nil {
		s.profile.ParserActive = active
	}
}

// Update builds the persistence payload from the form buffers.
func (s *ProfileState) Update(telegramID int64) api.ProfileUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rate, _ := strconv.ParseFloat(s.rate, 64)
	experience, _ := strconv.ParseFloat(s.experience, 64)
	return api.ProfileUpdate{
		TelegramID:      telegramID,
		FullName:        s.name,
		Bio:             s.bio,
		PortfolioURL:    s.portfolio,
		HourlyRate:      rate,
		ExperienceYears: experience,
	}
}

// Field returns the selected form field.
func (s *ProfileState) Field() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.field
}

// NavigateField moves the field selection by delta with wrap-around.
func (s *ProfileState) NavigateField(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.field = (s.field + delta + profileFieldCount) % profileFieldCount
	s.cursor = len(s.currentFieldLocked())
}

// CatIndex returns the selected category in the grid.
func (s *ProfileState) CatIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catIndex
}

// NavigateCategory moves the category cursor by delta with wrap-around.
func (s *ProfileState) NavigateCategory(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(types.CategoryOrder)
	s.catIndex = (s.catIndex + delta + n) % n
}

// SelectedCategory returns the category key under the grid cursor.
func (s *ProfileState) SelectedCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.CategoryOrder[s.catIndex]
}

// FieldValue returns a form buffer by field index.
func (s *ProfileState) FieldValue(field int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch field {
	case profileFieldName:
		return s.name
	case profileFieldBio:
		return s.bio
	case profileFieldPortfolio:
		return s.portfolio
	case profileFieldRate:
		return s.rate
	case profileFieldExperience:
		return s.experience
	}
	return ""
}

// Cursor returns the cursor position in the selected text field.
func (s *ProfileState) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// EditField applies an edit function to the selected text field buffer and
// cursor. No-op when the category grid is selected.
func (s *ProfileState) EditField(edit func(value *string, cursor *int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *string
	switch s.field {
	case profileFieldName:
		target = &s.name
	case profileFieldBio:
		target = &s.bio
	case profileFieldPortfolio:
		target = &s.portfolio
	case profileFieldRate:
		target = &s.rate
	case profileFieldExperience:
		target = &s.experience
	default:
		return
	}
	edit(target, &s.cursor)
}

func (s *ProfileState) currentFieldLocked() string {
	switch s.field {
	case profileFieldName:
		return s.name
	case profileFieldBio:
		return s.bio
	case profileFieldPortfolio:
		return s.portfolio
	case profileFieldRate:
		return s.rate
	case profileFieldExperience:
		return s.experience
	}
	return ""
}

func floatField(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
