package position

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// s1Liability mirrors the literal liability policy from Scenario S1: init
// 65%, healthy 70%, warnings at 73/75/78%, max 80%.
func s1Liability(t *testing.T) Liability {
	t.Helper()
	l, err := NewLiability(650, 700, 730, 750, 780, 800, time.Hour)
	require.NoError(t, err)
	return l
}

func TestNewLiability_RejectsOutOfOrderPercentages(t *testing.T) {
	_, err := NewLiability(700, 650, 730, 750, 780, 800, time.Hour)
	require.ErrorIs(t, err, ErrInvalidLiabilityOrdering)
}

func TestNewLiability_RejectsMaxAboveOneHundredPercent(t *testing.T) {
	_, err := NewLiability(650, 700, 730, 750, 780, 1001, time.Hour)
	require.ErrorIs(t, err, ErrInvalidLiabilityOrdering)
}

func TestInitBorrowMax_MatchesScenarioS1(t *testing.T) {
	l := s1Liability(t)
	require.Equal(t, int64(1_857_142), l.InitBorrowMax(1_000_000))
}

func TestZoneOf_BoundaryJustBelowFirstWarnIsNoWarnings(t *testing.T) {
	l := s1Liability(t)
	require.Equal(t, ZoneNoWarnings, l.ZoneOf(729))
}

func TestZoneOf_MatchesScenarioS3LevelTwoAt76Percent(t *testing.T) {
	l := s1Liability(t)
	require.Equal(t, ZoneSecond, l.ZoneOf(760))
}

func TestZoneOf_ExactlyOnWarningEdgeBelongsToThatZone(t *testing.T) {
	l := s1Liability(t)
	require.Equal(t, ZoneFirst, l.ZoneOf(730))
	require.Equal(t, ZoneSecond, l.ZoneOf(750))
	require.Equal(t, ZoneThird, l.ZoneOf(780))
}

func TestLowerEdge_ReturnsReregistrationAlarmPerScenarioS3(t *testing.T) {
	l := s1Liability(t)
	// At zone Second (76%), §S3 re-registers alarms at below=78% (the edge
	// of the next-worse zone) and above=73% (the first warning zone's lower
	// edge).
	require.Equal(t, Permille(780), l.LowerEdge(ZoneThird))
	require.Equal(t, Permille(730), l.LowerEdge(ZoneFirst))
}

func TestAmountToLiquidate_ZeroWhenHealthyAtOrAboveOneHundredPercent(t *testing.T) {
	require.Equal(t, int64(0), AmountToLiquidate(1000, 1_000_000, 900_000))
}

func TestAmountToLiquidate_ClipsToLeaseAmount(t *testing.T) {
	got := AmountToLiquidate(700, 1_000, 10_000_000)
	require.Equal(t, int64(1_000), got)
}
