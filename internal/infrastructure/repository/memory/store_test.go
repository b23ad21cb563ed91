package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

var _ usecase.MetadataStore = (*Store)(nil)

func TestClubRepository_FindClubByName(t *testing.T) {
	ctx := context.Background()
	repo := NewClubRepository([]club.Club{
		{ID: "190", Name: "FC Copenhagen", OfficialName: "Football Club København"},
		{ID: "206", Name: "Brøndby IF"},
	})

	got, ok, err := repo.FindClubByName(ctx, "copenhagen")
	if err != nil || !ok || got.ID != "190" {
		t.Fatalf("expected substring hit on name, got %+v %v %v", got, ok, err)
	}

	got, ok, _ = repo.FindClubByName(ctx, "football club")
	if !ok || got.ID != "190" {
		t.Fatalf("expected hit on official name, got %+v %v", got, ok)
	}

	if _, ok, _ := repo.FindClubByName(ctx, "arsenal"); ok {
		t.Fatalf("expected miss")
	}
}

func TestClubRepository_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewClubRepository(nil)

	c := club.Club{ID: "190", Name: "FC Copenhagen"}
	for i := 0; i < 2; i++ {
		if err := repo.UpsertClub(ctx, c); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	c.StadiumName = "Parken"
	_ = repo.UpsertClub(ctx, c)

	if repo.Len() != 1 {
		t.Fatalf("expected one club row, got %d", repo.Len())
	}
	got, _, _ := repo.FindClubByID(ctx, "190")
	if got.StadiumName != "Parken" {
		t.Fatalf("expected last write to win, got %+v", got)
	}
}

func TestSeasonRepository_LookupOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewSeasonRepository(nil)

	stored, err := repo.UpsertSeason(ctx, season.Season{ID: "s1", ExternalID: "2022", Label: "22/23", StartYear: 2022, EndYear: 2023, Type: season.TypeLeague})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	again, err := repo.UpsertSeason(ctx, season.Season{ID: "s2", ExternalID: "2022", Label: "22/23", StartYear: 2022, EndYear: 2023, Type: season.TypeLeague, CompetitionID: "DK1"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != stored.ID || again.CompetitionID != "DK1" {
		t.Fatalf("expected id kept and competition set, got %+v", again)
	}

	if _, ok, _ := repo.FindSeasonByLabelOrExternalID(ctx, season.Lookup{ExternalID: "2022", Type: season.TypeTournament}); ok {
		t.Fatalf("expected external id lookup to respect type")
	}
	got, ok, _ := repo.FindSeasonByLabelOrExternalID(ctx, season.Lookup{Label: "2022/23", ExternalID: "2022", Type: season.TypeLeague})
	if !ok || got.ID != "s1" {
		t.Fatalf("expected external id hit, got %+v %v", got, ok)
	}
}

func TestContractRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewContractRepository(nil)

	base := contract.Contract{PlayerID: "p1", ClubID: "190", SeasonID: "s1"}
	_ = repo.UpsertPlayerContract(ctx, base)
	_ = repo.UpsertPlayerContract(ctx, base)
	if repo.Len() != 1 {
		t.Fatalf("expected one unnumbered contract, got %d", repo.Len())
	}

	numbered := base
	numbered.JerseyNumber = contract.IntPtr(23)
	_ = repo.UpsertPlayerContract(ctx, numbered)
	_ = repo.UpsertPlayerContract(ctx, base)
	if repo.Len() != 1 {
		t.Fatalf("expected numbered contract to replace unnumbered one, got %d", repo.Len())
	}

	_ = repo.UpsertPlayerContract(ctx, contract.Contract{PlayerID: "p2", ClubID: "190", SeasonID: "s1", JerseyNumber: contract.IntPtr(9)})
	_ = repo.UpsertPlayerContract(ctx, contract.Contract{PlayerID: "p3", ClubID: "190", SeasonID: "s1"})

	got, ok, _ := repo.FindContractByJerseyNumber(ctx, "190", "s1", 23)
	if !ok || got.PlayerID != "p1" {
		t.Fatalf("expected p1 for #23, got %+v %v", got, ok)
	}

	list, _ := repo.FindContractsByClubSeason(ctx, "190", "s1")
	if len(list) != 3 || list[0].PlayerID != "p2" || list[1].PlayerID != "p1" || list[2].PlayerID != "p3" {
		t.Fatalf("unexpected order: %+v", list)
	}

	if err := repo.UpsertPlayerContract(ctx, contract.Contract{PlayerID: "p4", ClubID: "190", SeasonID: "s1", JerseyNumber: contract.IntPtr(120)}); err == nil {
		t.Fatalf("expected invalid number to be rejected")
	}
}

func TestPlayerRepository_FindPlayerByName(t *testing.T) {
	ctx := context.Background()
	repo := NewPlayerRepository([]player.Player{
		{ID: "2", FullName: "Jonas Wind"},
		{ID: "1", FullName: "Jonas Older Wind"},
		{ID: "3", FullName: "Ricardo Izecson dos Santos Leite", KnownAs: "Kaká"},
	})

	got, _ := repo.FindPlayerByName(ctx, "WIND")
	if len(got) != 2 || got[0].ID != "1" {
		t.Fatalf("unexpected wind matches %+v", got)
	}
	got, _ = repo.FindPlayerByName(ctx, "kaká")
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected alias match, got %+v", got)
	}
}

func TestCompetitionRepository_ClubSeasons(t *testing.T) {
	ctx := context.Background()
	repo := NewCompetitionRepository(nil)

	_ = repo.UpsertCompetition(ctx, competition.Competition{ID: "DK1", Name: "Superliga"})
	_ = repo.UpsertClubSeason(ctx, competition.ClubSeason{ClubID: "190", SeasonID: "s1", CompetitionID: "DK1"})
	_ = repo.UpsertClubSeason(ctx, competition.ClubSeason{ClubID: "190", SeasonID: "s1", CompetitionID: "DK1"})

	if links := repo.ClubSeasons("190", "s1"); len(links) != 1 {
		t.Fatalf("expected one link, got %+v", links)
	}
	if _, ok, _ := repo.FindCompetitionByID(ctx, "DK1"); !ok {
		t.Fatalf("expected competition stored")
	}
}
