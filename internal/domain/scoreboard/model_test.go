package scoreboard

import "testing"

func TestNormalizeTeamName(t *testing.T) {
	if got := NormalizeTeamName("  "); got != UnknownTeamName {
		t.Fatalf("unexpected name for blank input: %q", got)
	}
	if got := NormalizeTeamName(" The Gurley Gang "); got != "The Gurley Gang" {
		t.Fatalf("unexpected name: %q", got)
	}
}

func TestSortTeams_DescendingWithStableTies(t *testing.T) {
	teams := []Team{
		{ID: 1, Name: "A", Score: 88.5},
		{ID: 2, Name: "B", Score: 102.3},
		{ID: 3, Name: "C", Score: 88.5},
		{ID: 4, Name: "D", Score: 95.0},
	}

	SortTeams(teams)

	wantOrder := []int{2, 4, 1, 3}
	for i, want := range wantOrder {
		if teams[i].ID != want {
			t.Fatalf("position %d: got team %d, want %d", i, teams[i].ID, want)
		}
	}
}

func TestAssignRanks(t *testing.T) {
	teams := []Team{
		{ID: 1, Score: 50, ProjectedScore: 120},
		{ID: 2, Score: 100, ProjectedScore: 110},
		{ID: 3, Score: 75, ProjectedScore: 60},
	}

	AssignRanks(teams, 2)

	if teams[0].ID != 2 || teams[0].Rank != 1 || !teams[0].Top6 {
		t.Fatalf("unexpected leader: %+v", teams[0])
	}
	if teams[2].ID != 1 || teams[2].Rank != 3 || teams[2].Top6 {
		t.Fatalf("unexpected last place: %+v", teams[2])
	}
	// Projected ranks follow projected score regardless of live order.
	for _, team := range teams {
		switch team.ID {
		case 1:
			if team.ProjectedRank != 1 || !team.ProjectedTop6 {
				t.Fatalf("team 1 projected rank: %+v", team)
			}
		case 3:
			if team.ProjectedRank != 3 || team.ProjectedTop6 {
				t.Fatalf("team 3 projected rank: %+v", team)
			}
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"in-progress": StatusInProgress,
		"completed":   StatusCompleted,
		"":            StatusNotStarted,
		"garbage":     StatusNotStarted,
	}
	for input, want := range cases {
		if got := NormalizeStatus(input); got != want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", input, got, want)
		}
	}
}
