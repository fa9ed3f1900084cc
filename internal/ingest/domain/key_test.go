package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMessage() *MatchMessage {
	return &MatchMessage{
		HomeTeam:    "Rovers FC",
		AwayTeam:    "United FC",
		Competition: "Spring League",
		Season:      "2025",
		AgeGroup:    "U13",
		Division:    "Division 2",
		MatchDate:   NewMatchDate(2025, time.March, 1),
		Status:      StatusScheduled,
	}
}

func TestKeyDeriverSourceIDPrecedence(t *testing.T) {
	deriver, err := NewKeyDeriver(nil)
	require.NoError(t, err)

	t.Run("non-blank source_id is used directly", func(t *testing.T) {
		msg := keyMessage()
		msg.SourceID = "fixture-123"
		assert.Equal(t, "fixture-123", deriver.Derive(msg))
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		msg := keyMessage()
		msg.SourceID = "  fixture-123  "
		assert.Equal(t, "fixture-123", deriver.Derive(msg))
	})

	t.Run("blank source_id falls back to the digest", func(t *testing.T) {
		withBlank := keyMessage()
		withBlank.SourceID = "   "
		withEmpty := keyMessage()

		assert.Equal(t, deriver.Derive(withEmpty), deriver.Derive(withBlank))
		assert.NotEqual(t, "", deriver.Derive(withBlank))
		assert.Len(t, deriver.Derive(withBlank), 64)
	})
}

func TestKeyDeriverDeterminism(t *testing.T) {
	deriver, err := NewKeyDeriver(nil)
	require.NoError(t, err)

	t.Run("equal messages produce equal keys", func(t *testing.T) {
		assert.Equal(t, deriver.Derive(keyMessage()), deriver.Derive(keyMessage()))
	})

	t.Run("case and whitespace variants produce equal keys", func(t *testing.T) {
		variant := keyMessage()
		variant.HomeTeam = "  ROVERS fc "
		variant.AwayTeam = "united FC  "
		variant.Competition = "spring league"

		assert.Equal(t, deriver.Derive(keyMessage()), deriver.Derive(variant))
	})

	t.Run("different fixtures produce different keys", func(t *testing.T) {
		otherDate := keyMessage()
		otherDate.MatchDate = NewMatchDate(2025, time.March, 2)
		otherTeam := keyMessage()
		otherTeam.HomeTeam = "Wanderers FC"
		otherSeason := keyMessage()
		otherSeason.Season = "2026"

		base := deriver.Derive(keyMessage())
		assert.NotEqual(t, base, deriver.Derive(otherDate))
		assert.NotEqual(t, base, deriver.Derive(otherTeam))
		assert.NotEqual(t, base, deriver.Derive(otherSeason))
	})

	t.Run("field values do not bleed across positions", func(t *testing.T) {
		a := keyMessage()
		a.HomeTeam = "ab"
		a.AwayTeam = "c"
		b := keyMessage()
		b.HomeTeam = "a"
		b.AwayTeam = "bc"

		assert.NotEqual(t, deriver.Derive(a), deriver.Derive(b))
	})

	t.Run("default field set excludes age group and division", func(t *testing.T) {
		variant := keyMessage()
		variant.AgeGroup = "U14"
		variant.Division = "Division 9"

		assert.Equal(t, deriver.Derive(keyMessage()), deriver.Derive(variant))
	})
}

func TestKeyDeriverConfiguredFields(t *testing.T) {
	t.Run("wider field set distinguishes by division", func(t *testing.T) {
		deriver, err := NewKeyDeriver([]string{
			KeyFieldHomeTeam, KeyFieldAwayTeam, KeyFieldMatchDate,
			KeyFieldCompetition, KeyFieldSeason, KeyFieldAgeGroup, KeyFieldDivision,
		})
		require.NoError(t, err)

		variant := keyMessage()
		variant.Division = "Division 9"
		assert.NotEqual(t, deriver.Derive(keyMessage()), deriver.Derive(variant))
	})

	t.Run("unknown field name is rejected", func(t *testing.T) {
		_, err := NewKeyDeriver([]string{"home_team", "venue"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "venue")
	})

	t.Run("empty list selects the defaults", func(t *testing.T) {
		deriver, err := NewKeyDeriver(nil)
		require.NoError(t, err)

		explicit, err := NewKeyDeriver(DefaultKeyFields())
		require.NoError(t, err)

		assert.Equal(t, explicit.Derive(keyMessage()), deriver.Derive(keyMessage()))
	})
}

func TestParseKeyFields(t *testing.T) {
	tests := []struct {
		name     string
		list     string
		expected []string
	}{
		{
			name:     "comma separated list",
			list:     "home_team,away_team,match_date",
			expected: []string{"home_team", "away_team", "match_date"},
		},
		{
			name:     "whitespace and empty entries are dropped",
			list:     " home_team , ,away_team,",
			expected: []string{"home_team", "away_team"},
		},
		{
			name:     "empty string yields nil",
			list:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseKeyFields(tt.list))
		})
	}
}
