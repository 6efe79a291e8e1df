package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Mon 2022-12-19 .. Fri 2022-12-23, with the Friday excluded as a holiday.
func decemberConfig() Config {
	return Config{
		Periods: []Period{
			{
				ID:         "SY 22-23 P1",
				SchoolYear: "SY 22-23",
				Start:      date(2022, time.September, 6),
				End:        date(2022, time.December, 23),
			},
			{
				ID:         "SY 22-23 P2",
				SchoolYear: "SY 22-23",
				Start:      date(2023, time.January, 3),
				End:        date(2023, time.March, 24),
			},
		},
		NonCollectionDates: map[time.Time]struct{}{
			date(2022, time.December, 23): {},
		},
	}
}

func TestClassifier_IsCollectionDay(t *testing.T) {
	classifier, err := NewClassifier(decemberConfig())
	require.NoError(t, err)

	t.Run("weekday inside a period is a collection day", func(t *testing.T) {
		ok, err := classifier.IsCollectionDay(date(2022, time.December, 19)) // Monday
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("weekend is not a collection day", func(t *testing.T) {
		ok, err := classifier.IsCollectionDay(date(2022, time.December, 17)) // Saturday
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("excluded date is not a collection day", func(t *testing.T) {
		ok, err := classifier.IsCollectionDay(date(2022, time.December, 23)) // Friday holiday
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("date between periods is not a collection day", func(t *testing.T) {
		ok, err := classifier.IsCollectionDay(date(2022, time.December, 28)) // Wednesday, winter break
		require.NoError(t, err)
		assert.False(t, ok)

		class, err := classifier.Classify(date(2022, time.December, 28))
		require.NoError(t, err)
		assert.Equal(t, DayOutOfPeriod, class)
	})

	t.Run("period boundary dates are inclusive", func(t *testing.T) {
		ok, err := classifier.IsCollectionDay(date(2022, time.September, 6)) // Tuesday, P1 start
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = classifier.IsCollectionDay(date(2023, time.March, 24)) // Friday, P2 end
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("date outside every school year is a configuration gap", func(t *testing.T) {
		_, err := classifier.IsCollectionDay(date(2021, time.March, 1))
		require.ErrorIs(t, err, ErrSchoolYearUnresolved)
	})

	t.Run("weekend on the exclusion list is excluded exactly once", func(t *testing.T) {
		cfg := decemberConfig()
		saturday := date(2022, time.December, 17)
		cfg.NonCollectionDates[saturday] = struct{}{}
		c, err := NewClassifier(cfg)
		require.NoError(t, err)

		ok, err := c.IsCollectionDay(saturday)
		require.NoError(t, err)
		assert.False(t, ok)

		class, err := c.Classify(saturday)
		require.NoError(t, err)
		assert.Equal(t, DayWeekend, class)
	})

	t.Run("time of day does not change classification", func(t *testing.T) {
		ok, err := classifier.IsCollectionDay(time.Date(2022, time.December, 19, 23, 45, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestClassifier_CollectionDaysInRange(t *testing.T) {
	classifier, err := NewClassifier(decemberConfig())
	require.NoError(t, err)

	t.Run("excludes weekends and holidays, includes both endpoints", func(t *testing.T) {
		days, err := classifier.CollectionDaysInRange(date(2022, time.December, 19), date(2022, time.December, 23))
		require.NoError(t, err)
		assert.Equal(t, []time.Time{
			date(2022, time.December, 19),
			date(2022, time.December, 20),
			date(2022, time.December, 21),
			date(2022, time.December, 22),
		}, days)
	})

	t.Run("contains no weekends or excluded dates over a full period", func(t *testing.T) {
		cfg := decemberConfig()
		p1 := cfg.Periods[0]
		days, err := classifier.CollectionDaysInRange(p1.Start, p1.End)
		require.NoError(t, err)
		require.NotEmpty(t, days)
		for _, d := range days {
			assert.False(t, IsWeekend(d), "weekend date %s in range", d.Format(time.DateOnly))
			_, excluded := cfg.NonCollectionDates[d]
			assert.False(t, excluded, "excluded date %s in range", d.Format(time.DateOnly))
		}
	})

	t.Run("single day period yields zero or one day", func(t *testing.T) {
		cfg := Config{
			Periods: []Period{{
				ID:         "SY 22-23 P1",
				SchoolYear: "SY 22-23",
				Start:      date(2022, time.September, 6),
				End:        date(2022, time.September, 6),
			}},
		}
		c, err := NewClassifier(cfg)
		require.NoError(t, err)

		days, err := c.CollectionDaysInRange(date(2022, time.September, 6), date(2022, time.September, 6))
		require.NoError(t, err)
		assert.Len(t, days, 1) // 2022-09-06 is a Tuesday
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		_, err := classifier.CollectionDaysInRange(date(2022, time.December, 23), date(2022, time.December, 19))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestNewClassifier_Validation(t *testing.T) {
	t.Run("rejects overlapping periods within a school year", func(t *testing.T) {
		cfg := decemberConfig()
		cfg.Periods = append(cfg.Periods, Period{
			ID:         "SY 22-23 P1b",
			SchoolYear: "SY 22-23",
			Start:      date(2022, time.December, 1),
			End:        date(2023, time.January, 10),
		})
		_, err := NewClassifier(cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("allows back to back periods in different school years", func(t *testing.T) {
		cfg := decemberConfig()
		cfg.Periods = append(cfg.Periods, Period{
			ID:         "SY 21-22 P3",
			SchoolYear: "SY 21-22",
			Start:      date(2022, time.April, 4),
			End:        date(2022, time.June, 17),
		})
		_, err := NewClassifier(cfg)
		require.NoError(t, err)
	})

	t.Run("rejects a period ending before it starts", func(t *testing.T) {
		cfg := Config{
			Periods: []Period{{
				ID:         "SY 22-23 P1",
				SchoolYear: "SY 22-23",
				Start:      date(2022, time.December, 23),
				End:        date(2022, time.December, 19),
			}},
		}
		_, err := NewClassifier(cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestClassifier_PeriodsOverlapping(t *testing.T) {
	classifier, err := NewClassifier(decemberConfig())
	require.NoError(t, err)

	t.Run("returns periods intersecting the range in start order", func(t *testing.T) {
		periods := classifier.PeriodsOverlapping(date(2022, time.December, 1), date(2023, time.January, 15))
		require.Len(t, periods, 2)
		assert.Equal(t, "SY 22-23 P1", periods[0].ID)
		assert.Equal(t, "SY 22-23 P2", periods[1].ID)
	})

	t.Run("returns nothing outside all periods", func(t *testing.T) {
		periods := classifier.PeriodsOverlapping(date(2022, time.December, 24), date(2023, time.January, 2))
		assert.Empty(t, periods)
	})
}
