package resolver_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	catalogmock "github.com/KirkDiggler/digidex/internal/clients/catalog/mock"
	"github.com/KirkDiggler/digidex/internal/entities"
	"github.com/KirkDiggler/digidex/internal/errors"
	"github.com/KirkDiggler/digidex/internal/orchestrators/resolver"
	"github.com/KirkDiggler/digidex/internal/overrides"
)

type ResolverTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockCatalog *catalogmock.MockClient
	ctx         context.Context
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCatalog = catalogmock.NewMockClient(s.ctrl)
	s.ctx = context.Background()
}

func (s *ResolverTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestResolverTestSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) newResolver(mutate func(cfg *resolver.Config)) resolver.Service {
	cfg := &resolver.Config{
		Catalog:   s.mockCatalog,
		Overrides: overrides.NewFromEntries(map[string]string{"Gatomon": "Tailmon"}),
	}
	if mutate != nil {
		mutate(cfg)
	}
	svc, err := resolver.NewOrchestrator(cfg)
	s.Require().NoError(err)
	return svc
}

func walkOnly(cfg *resolver.Config) {
	cfg.DisableDirectLookup = true
}

func record(id, name string) *entities.CatalogRecord {
	return &entities.CatalogRecord{ID: id, Name: name}
}

func page(n int, hasNext bool, summaries ...entities.CatalogSummary) *entities.Page {
	return &entities.Page{Content: summaries, CurrentPage: n, HasNext: hasNext}
}

func entry(id, name string) entities.CatalogSummary {
	return entities.CatalogSummary{ID: id, Name: name}
}

func (s *ResolverTestSuite) TestOverrideNeverWalks() {
	s.mockCatalog.EXPECT().GetRecordByName(gomock.Any(), "Tailmon").Return(record("2", "Tailmon"), nil)

	out, err := s.newResolver(nil).Resolve(s.ctx, &resolver.ResolveInput{Name: "Gatomon"})
	s.Require().NoError(err)
	s.True(out.Found())
	s.Equal(resolver.TierOverride, out.Tier)
	s.Equal("Tailmon", out.Record.Name)
	s.Equal("Tailmon", out.Candidate)
	s.InDelta(1.0, out.Similarity, 0)
	s.Equal(0, out.PagesWalked)
}

func (s *ResolverTestSuite) TestOverrideFailureDoesNotFallThrough() {
	s.mockCatalog.EXPECT().GetRecordByName(gomock.Any(), "Tailmon").
		Return(nil, errors.NotFound("catalog record \"Tailmon\" not found"))

	out, err := s.newResolver(nil).Resolve(s.ctx, &resolver.ResolveInput{Name: "Gatomon"})
	s.Require().NoError(err)
	s.False(out.Found())
	s.Equal(resolver.TierNone, out.Tier)
}

func (s *ResolverTestSuite) TestDefaultOverridesApply() {
	s.mockCatalog.EXPECT().GetRecordByName(gomock.Any(), "Death Meramon").Return(record("9", "Death Meramon"), nil)

	out, err := s.newResolver(func(cfg *resolver.Config) {
		cfg.Overrides = nil
	}).Resolve(s.ctx, &resolver.ResolveInput{Name: "SkullMeramon"})
	s.Require().NoError(err)
	s.Equal(resolver.TierOverride, out.Tier)
}

func (s *ResolverTestSuite) TestDirectHit() {
	s.mockCatalog.EXPECT().GetRecordByName(gomock.Any(), "Agumon").Return(record("1", "Agumon"), nil)

	out, err := s.newResolver(nil).Resolve(s.ctx, &resolver.ResolveInput{Name: "Agumon"})
	s.Require().NoError(err)
	s.Equal(resolver.TierDirect, out.Tier)
	s.Equal("1", out.Record.ID)
	s.InDelta(1.0, out.Similarity, 0)
}

func (s *ResolverTestSuite) TestDirectMissFallsBackToWalk() {
	gomock.InOrder(
		s.mockCatalog.EXPECT().GetRecordByName(gomock.Any(), "War Greymon").
			Return(nil, errors.NotFound("not found")),
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 0).
			Return(page(0, false, entry("42", "WarGreymon")), nil),
		s.mockCatalog.EXPECT().GetRecordByID(gomock.Any(), "42").Return(record("42", "WarGreymon"), nil),
	)

	out, err := s.newResolver(nil).Resolve(s.ctx, &resolver.ResolveInput{Name: "War Greymon"})
	s.Require().NoError(err)
	s.Equal(resolver.TierExact, out.Tier)
	s.Equal(1, out.PagesWalked)
}

func (s *ResolverTestSuite) TestExactBeatsEarlierFuzzyOnSamePage() {
	gomock.InOrder(
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 0).Return(page(0, true,
			entry("10", "WarGreymonX"),
			entry("11", "Agumon"),
			entry("12", "WarGreymon"),
		), nil),
		s.mockCatalog.EXPECT().GetRecordByID(gomock.Any(), "12").Return(record("12", "WarGreymon"), nil),
	)

	out, err := s.newResolver(walkOnly).Resolve(s.ctx, &resolver.ResolveInput{Name: "wargreymon"})
	s.Require().NoError(err)
	s.Equal(resolver.TierExact, out.Tier)
	s.Equal("WarGreymon", out.Candidate)
}

func (s *ResolverTestSuite) TestHighConfidenceBoundary() {
	name := strings.Repeat("a", 25)
	near := strings.Repeat("a", 22) + "bbb" // similarity exactly 22/25

	testCases := []struct {
		name      string
		threshold float64
		tier      resolver.Tier
	}{
		{name: "at threshold accepted mid-walk", threshold: 0.88, tier: resolver.TierHighConfidence},
		{name: "just above threshold falls to best effort", threshold: 0.880001, tier: resolver.TierBestEffort},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockCatalog.EXPECT().GetPage(gomock.Any(), 0).
				Return(page(0, false, entry("7", near)), nil)
			s.mockCatalog.EXPECT().GetRecordByID(gomock.Any(), "7").Return(record("7", near), nil)

			out, err := s.newResolver(func(cfg *resolver.Config) {
				cfg.DisableDirectLookup = true
				cfg.HighConfidenceThreshold = tc.threshold
			}).Resolve(s.ctx, &resolver.ResolveInput{Name: name})
			s.Require().NoError(err)
			s.Equal(tc.tier, out.Tier)
			s.InDelta(0.88, out.Similarity, 1e-9)
		})
	}
}

func (s *ResolverTestSuite) TestHighConfidenceStopsWalk() {
	gomock.InOrder(
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 0).
			Return(page(0, true, entry("1", "Agumon")), nil),
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 1).
			Return(page(1, true, entry("20", "Metalgreymon")), nil),
		s.mockCatalog.EXPECT().GetRecordByID(gomock.Any(), "20").Return(record("20", "Metalgreymon"), nil),
	)

	// one extra letter over 13: similarity 0.923
	out, err := s.newResolver(walkOnly).Resolve(s.ctx, &resolver.ResolveInput{Name: "Metal Greymonn"})
	s.Require().NoError(err)
	s.Equal(resolver.TierHighConfidence, out.Tier)
	s.Equal(2, out.PagesWalked)
}

func (s *ResolverTestSuite) TestBestEffortFirstSeenWinsTies() {
	gomock.InOrder(
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 0).
			Return(page(0, true, entry("1", "Agumox")), nil),
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 1).
			Return(page(1, false, entry("2", "Agumoz")), nil),
		s.mockCatalog.EXPECT().GetRecordByID(gomock.Any(), "1").Return(record("1", "Agumox"), nil),
	)

	out, err := s.newResolver(walkOnly).Resolve(s.ctx, &resolver.ResolveInput{Name: "Agumon"})
	s.Require().NoError(err)
	s.Equal(resolver.TierBestEffort, out.Tier)
	s.Equal("Agumox", out.Candidate)
	s.InDelta(1-1.0/6, out.Similarity, 1e-9)
	s.Equal(2, out.PagesWalked)
}

func (s *ResolverTestSuite) TestBelowBestEffortIsNotFound() {
	s.mockCatalog.EXPECT().GetPage(gomock.Any(), 0).
		Return(page(0, false, entry("1", "abcdefgxyz")), nil)

	out, err := s.newResolver(walkOnly).Resolve(s.ctx, &resolver.ResolveInput{Name: "abcdefghij"})
	s.Require().NoError(err)
	s.False(out.Found())
	s.Equal(resolver.TierNone, out.Tier)
	s.Equal(1, out.PagesWalked)
}

func (s *ResolverTestSuite) TestFailedPageEndsWalkWithEarlierCandidates() {
	gomock.InOrder(
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 0).
			Return(page(0, true, entry("1", "Zzzzzz")), nil),
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 1).
			Return(page(1, true, entry("2", "Agumox")), nil),
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 2).
			Return(nil, errors.Unavailable("catalog down")),
		s.mockCatalog.EXPECT().GetRecordByID(gomock.Any(), "2").Return(record("2", "Agumox"), nil),
	)

	out, err := s.newResolver(walkOnly).Resolve(s.ctx, &resolver.ResolveInput{Name: "Agumon"})
	s.Require().NoError(err)
	s.Equal(resolver.TierBestEffort, out.Tier)
	s.Equal(2, out.PagesWalked)
}

func (s *ResolverTestSuite) TestSelectedFetchFailureIsNotFound() {
	gomock.InOrder(
		s.mockCatalog.EXPECT().GetPage(gomock.Any(), 0).
			Return(page(0, true, entry("1", "Agumon")), nil),
		s.mockCatalog.EXPECT().GetRecordByID(gomock.Any(), "1").
			Return(nil, errors.Unavailable("catalog down")),
	)

	out, err := s.newResolver(walkOnly).Resolve(s.ctx, &resolver.ResolveInput{Name: "Agumon"})
	s.Require().NoError(err)
	s.False(out.Found())
	s.Equal(resolver.TierNone, out.Tier)
}

func (s *ResolverTestSuite) TestUnnormalizableNameIsNotFound() {
	out, err := s.newResolver(walkOnly).Resolve(s.ctx, &resolver.ResolveInput{Name: "!!!"})
	s.Require().NoError(err)
	s.False(out.Found())
	s.Equal(0, out.PagesWalked)
}

func (s *ResolverTestSuite) TestEmptyNameRejected() {
	_, err := s.newResolver(nil).Resolve(s.ctx, &resolver.ResolveInput{Name: "  "})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.newResolver(nil).Resolve(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ResolverTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.newResolver(walkOnly).Resolve(ctx, &resolver.ResolveInput{Name: "Agumon"})
	s.Require().Error(err)
	s.True(errors.IsCanceled(err))
}

func (s *ResolverTestSuite) TestCanceledDuringDirectLookup() {
	ctx, cancel := context.WithCancel(s.ctx)
	s.mockCatalog.EXPECT().GetRecordByName(gomock.Any(), "Agumon").
		DoAndReturn(func(context.Context, string) (*entities.CatalogRecord, error) {
			cancel()
			return nil, errors.Canceled("request aborted")
		})

	_, err := s.newResolver(nil).Resolve(ctx, &resolver.ResolveInput{Name: "Agumon"})
	s.True(errors.IsCanceled(err))
}

func (s *ResolverTestSuite) TestConfigValidation() {
	testCases := []struct {
		name   string
		cfg    *resolver.Config
		errMsg string
	}{
		{
			name:   "missing catalog",
			cfg:    &resolver.Config{},
			errMsg: "Catalog",
		},
		{
			name: "best effort above high confidence",
			cfg: &resolver.Config{
				Catalog:                 s.mockCatalog,
				HighConfidenceThreshold: 0.8,
				BestEffortThreshold:     0.9,
			},
			errMsg: "BestEffortThreshold",
		},
		{
			name: "high confidence above one",
			cfg: &resolver.Config{
				Catalog:                 s.mockCatalog,
				HighConfidenceThreshold: 1.2,
			},
			errMsg: "HighConfidenceThreshold",
		},
		{
			name:   "negative max pages",
			cfg:    &resolver.Config{Catalog: s.mockCatalog, MaxPages: -5},
			errMsg: "MaxPages",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := resolver.NewOrchestrator(tc.cfg)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.errMsg)
		})
	}
}

func (s *ResolverTestSuite) TestConfigDefaults() {
	cfg := &resolver.Config{Catalog: s.mockCatalog}
	s.Require().NoError(cfg.Validate())
	s.InDelta(resolver.DefaultHighConfidenceThreshold, cfg.HighConfidenceThreshold, 0)
	s.InDelta(resolver.DefaultBestEffortThreshold, cfg.BestEffortThreshold, 0)
	s.NotNil(cfg.Overrides)
}
