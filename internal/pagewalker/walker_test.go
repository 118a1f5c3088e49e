package pagewalker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	catalogmock "github.com/KirkDiggler/digidex/internal/clients/catalog/mock"
	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/pagewalker"
	"github.com/KirkDiggler/digidex/internal/testutils"
	"github.com/KirkDiggler/digidex/internal/testutils/mocks"
)

type WalkerTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockClient *catalogmock.MockClient
	ctx        context.Context
}

func (s *WalkerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = catalogmock.NewMockClient(s.ctrl)
	s.ctx = context.Background()
}

func (s *WalkerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestWalkerTestSuite(t *testing.T) {
	suite.Run(t, new(WalkerTestSuite))
}

func (s *WalkerTestSuite) newWalker(maxPages int) *pagewalker.Walker {
	w, err := pagewalker.New(&pagewalker.Config{Client: s.mockClient, MaxPages: maxPages})
	s.Require().NoError(err)
	return w
}

func (s *WalkerTestSuite) collect(w *pagewalker.Walker) []int {
	var seen []int
	for w.Next(s.ctx) {
		seen = append(seen, w.Page().CurrentPage)
	}
	return seen
}

func (s *WalkerTestSuite) TestWalksUntilNoNextPage() {
	mocks.ExpectPages(s.mockClient,
		testutils.Page(0, true, "Agumon"),
		testutils.Page(1, true, "Gabumon"),
		testutils.Page(2, false, "Patamon"),
	)

	w := s.newWalker(0)
	s.Equal([]int{0, 1, 2}, s.collect(w))
	s.NoError(w.Err())
	s.Equal(3, w.PagesFetched())
	s.Nil(w.Page())
	s.False(w.Next(s.ctx))
}

func (s *WalkerTestSuite) TestFetchFailureEndsWalk() {
	gomock.InOrder(
		s.mockClient.EXPECT().GetPage(gomock.Any(), 0).Return(testutils.Page(0, true, "Agumon"), nil),
		s.mockClient.EXPECT().GetPage(gomock.Any(), 1).Return(testutils.Page(1, true, "Gabumon"), nil),
		s.mockClient.EXPECT().GetPage(gomock.Any(), 2).Return(nil, errors.Unavailable("catalog down")),
	)

	w := s.newWalker(0)
	s.Equal([]int{0, 1}, s.collect(w))
	s.Require().Error(w.Err())
	s.True(errors.IsUnavailable(w.Err()))
	s.Equal(2, w.PagesFetched())
}

func (s *WalkerTestSuite) TestFirstPageFailureYieldsNothing() {
	s.mockClient.EXPECT().GetPage(gomock.Any(), 0).Return(nil, errors.Unavailable("catalog down"))

	w := s.newWalker(0)
	s.Empty(s.collect(w))
	s.Error(w.Err())
}

func (s *WalkerTestSuite) TestMaxPagesBound() {
	s.mockClient.EXPECT().GetPage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n int) (*entities.Page, error) {
			return testutils.Page(n, true, "Numemon"), nil
		}).Times(3)

	w := s.newWalker(3)
	s.Equal([]int{0, 1, 2}, s.collect(w))
	s.NoError(w.Err())
}

func (s *WalkerTestSuite) TestCanceledContextStopsBeforeFetch() {
	s.mockClient.EXPECT().GetPage(gomock.Any(), 0).Return(testutils.Page(0, true, "Agumon"), nil)

	ctx, cancel := context.WithCancel(s.ctx)
	w := s.newWalker(0)

	s.True(w.Next(ctx))
	cancel()
	s.False(w.Next(ctx))
	s.True(errors.IsCanceled(w.Err()))
}

func (s *WalkerTestSuite) TestResetRestartsFromZero() {
	s.mockClient.EXPECT().GetPage(gomock.Any(), 0).Return(testutils.Page(0, false, "Agumon"), nil).Times(2)

	w := s.newWalker(0)
	s.Equal([]int{0}, s.collect(w))

	w.Reset()
	s.Equal(0, w.PagesFetched())
	s.Equal([]int{0}, s.collect(w))
}

func (s *WalkerTestSuite) TestConfigValidation() {
	_, err := pagewalker.New(&pagewalker.Config{MaxPages: -1})
	s.Require().Error(err)
	s.Contains(err.Error(), "Client")
	s.Contains(err.Error(), "MaxPages")

	cfg := &pagewalker.Config{Client: s.mockClient}
	s.Require().NoError(cfg.Validate())
	s.Equal(pagewalker.DefaultMaxPages, cfg.MaxPages)
}
