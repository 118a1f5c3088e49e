package favorites_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/repositories/favorites"
	"github.com/KirkDiggler/digidex/internal/testutils"
)

// repositorySuite runs the same behavior checks against every implementation
type repositorySuite struct {
	suite.Suite
	newRepo func() favorites.Repository
	repo    favorites.Repository
	ctx     context.Context
}

func (s *repositorySuite) SetupTest() {
	s.repo = s.newRepo()
	s.ctx = context.Background()
}

func (s *repositorySuite) set(userID, name string) {
	_, err := s.repo.Set(s.ctx, &favorites.SetInput{
		UserID:   userID,
		Document: &entities.FavoriteDocument{Name: name, Img: "https://img.test/" + name, Level: "Rookie"},
	})
	s.Require().NoError(err)
}

func (s *repositorySuite) names(userID string) []string {
	out, err := s.repo.GetAll(s.ctx, &favorites.GetAllInput{UserID: userID})
	s.Require().NoError(err)
	names := make([]string, 0, len(out.Documents))
	for _, d := range out.Documents {
		names = append(names, d.Name)
	}
	return names
}

func (s *repositorySuite) TestSetGetDelete() {
	s.set("user-1", "Gatomon")
	s.set("user-1", "Agumon")
	s.set("user-2", "Patamon")

	s.Equal([]string{"Agumon", "Gatomon"}, s.names("user-1"))
	s.Equal([]string{"Patamon"}, s.names("user-2"))

	out, err := s.repo.Delete(s.ctx, &favorites.DeleteInput{UserID: "user-1", Name: "Gatomon"})
	s.Require().NoError(err)
	s.True(out.Deleted)
	s.Equal([]string{"Agumon"}, s.names("user-1"))

	out, err = s.repo.Delete(s.ctx, &favorites.DeleteInput{UserID: "user-1", Name: "Gatomon"})
	s.Require().NoError(err)
	s.False(out.Deleted)
}

func (s *repositorySuite) TestSetIsUpsert() {
	s.set("user-1", "Agumon")
	_, err := s.repo.Set(s.ctx, &favorites.SetInput{
		UserID:   "user-1",
		Document: &entities.FavoriteDocument{Name: "Agumon", Img: "new.png", Level: "Child"},
	})
	s.Require().NoError(err)

	out, err := s.repo.GetAll(s.ctx, &favorites.GetAllInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Require().Len(out.Documents, 1)
	s.Equal("Child", out.Documents[0].Level)
}

func (s *repositorySuite) TestEmptyUser() {
	out, err := s.repo.GetAll(s.ctx, &favorites.GetAllInput{UserID: "nobody"})
	s.Require().NoError(err)
	s.Empty(out.Documents)
}

func (s *repositorySuite) TestInvalidInput() {
	testCases := []struct {
		name string
		call func() error
	}{
		{
			name: "get without user",
			call: func() error {
				_, err := s.repo.GetAll(s.ctx, &favorites.GetAllInput{})
				return err
			},
		},
		{
			name: "set without document",
			call: func() error {
				_, err := s.repo.Set(s.ctx, &favorites.SetInput{UserID: "user-1"})
				return err
			},
		},
		{
			name: "set without name",
			call: func() error {
				_, err := s.repo.Set(s.ctx, &favorites.SetInput{UserID: "user-1", Document: &entities.FavoriteDocument{}})
				return err
			},
		},
		{
			name: "delete without name",
			call: func() error {
				_, err := s.repo.Delete(s.ctx, &favorites.DeleteInput{UserID: "user-1"})
				return err
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.True(errors.IsInvalidArgument(tc.call()))
		})
	}
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &repositorySuite{newRepo: func() favorites.Repository {
		return favorites.NewInMemoryRepository()
	}})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &repositorySuite{newRepo: func() favorites.Repository {
		client, _ := testutils.CreateTestRedisClient(t)
		repo, err := favorites.NewRedisRepository(&favorites.Config{Client: client})
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo favorites.Repository
	ctx  context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	s.mr = mr
	s.ctx = context.Background()

	var err error
	s.repo, err = favorites.NewRedisRepository(&favorites.Config{Client: client})
	s.Require().NoError(err)
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestStoredAsHashPerUser() {
	_, err := s.repo.Set(s.ctx, &favorites.SetInput{
		UserID:   "user-1",
		Document: &entities.FavoriteDocument{Name: "Gatomon", Img: "g.png", Level: "Champion"},
	})
	s.Require().NoError(err)

	s.JSONEq(`{"name":"Gatomon","img":"g.png","level":"Champion"}`, s.mr.HGet("favorites:user:user-1", "Gatomon"))
}

func (s *RedisRepositoryTestSuite) TestUndecodableEntriesSkipped() {
	s.mr.HSet("favorites:user:user-1", "Agumon", `{"name":"Agumon","img":"a.png","level":"Rookie"}`)
	s.mr.HSet("favorites:user:user-1", "Broken", `{not json`)
	s.mr.HSet("favorites:user:user-1", "Partial", `{"name":"Partial"}`)

	out, err := s.repo.GetAll(s.ctx, &favorites.GetAllInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Equal(1, out.Skipped)
	s.Require().Len(out.Documents, 2)
	s.Equal("Agumon", out.Documents[0].Name)
	s.True(out.Documents[0].Valid())
	s.False(out.Documents[1].Valid())
}

func (s *RedisRepositoryTestSuite) TestUnavailable() {
	s.mr.Close()

	_, err := s.repo.GetAll(s.ctx, &favorites.GetAllInput{UserID: "user-1"})
	s.True(errors.IsUnavailable(err))
}

func TestNewRedisRepositoryRequiresClient(t *testing.T) {
	_, err := favorites.NewRedisRepository(&favorites.Config{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
