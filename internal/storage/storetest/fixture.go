// Package storetest holds the shared fixture and behavioural suite every
// storage.ContentStore implementation must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/stretchr/testify/require"
)

const (
	SlugFutureTrading  = "future-of-cryptocurrency-trading"
	SlugFutureTradePL  = "przyszlosc-handlu-kryptowalutami"
	SlugBitcoinHalving = "bitcoin-halving-explained"
	SlugDefiGuide      = "understanding-defi"
	SlugEthereumDraft  = "upcoming-ethereum-upgrade"
	SlugBitcoinPL      = "bitcoin-dla-poczatkujacych"
)

// Fixture indexes the seeded records by "locale/slug".
type Fixture struct {
	Articles map[string]content.Article
	Tags     map[string]content.Tag
}

func (f Fixture) Article(locale content.Locale, slug string) content.Article {
	return f.Articles[string(locale)+"/"+slug]
}

func (f Fixture) Tag(locale content.Locale, slug string) content.Tag {
	return f.Tags[string(locale)+"/"+slug]
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func published(s string) *time.Time {
	t := date(s)
	return &t
}

// Seed writes a small bilingual data set through the store's public API.
func Seed(t *testing.T, ctx context.Context, s storage.ContentStore) Fixture {
	t.Helper()

	fx := Fixture{Articles: map[string]content.Article{}, Tags: map[string]content.Tag{}}

	tags := []content.Tag{
		{Name: "Cryptocurrency", Slug: "cryptocurrency", Description: "Digital currencies and blockchain technology", Locale: content.LocaleEnglish},
		{Name: "Blockchain", Slug: "blockchain", Description: "Distributed ledger technology", Locale: content.LocaleEnglish},
		{Name: "Trading", Slug: "trading", Description: "Financial trading strategies", Locale: content.LocaleEnglish},
		{Name: "Bitcoin", Slug: "bitcoin", Description: "The original cryptocurrency", Locale: content.LocaleEnglish},
		{Name: "Kryptowaluty", Slug: "kryptowaluty", Description: "Cyfrowe waluty i technologia blockchain", Locale: content.LocalePolish},
		{Name: "Handel", Slug: "handel", Description: "Strategie handlu finansowego", Locale: content.LocalePolish},
		{Name: "Bitcoin", Slug: "bitcoin", Description: "Pierwsza kryptowaluta", Locale: content.LocalePolish},
	}
	for _, tag := range tags {
		created, err := s.CreateTag(ctx, tag)
		require.NoError(t, err)
		fx.Tags[string(created.Locale)+"/"+created.Slug] = created
	}

	ref := func(locale content.Locale, slugs ...string) []content.TagRef {
		var refs []content.TagRef
		for _, slug := range slugs {
			refs = append(refs, fx.Tag(locale, slug).Ref())
		}
		return refs
	}

	articles := []content.Article{
		{
			Title:            "The Future of Cryptocurrency Trading",
			Slug:             SlugFutureTrading,
			Content:          "<p>Cryptocurrency trading has evolved significantly over the past decade.</p>",
			ShortDescription: "Explore the latest trends and innovations in trading platforms.",
			Author:           "WandaExchange Team",
			PublicationDate:  date("2025-08-12"),
			Locale:           content.LocaleEnglish,
			PublishedAt:      published("2025-08-12"),
			SEO:              content.SEO{Title: "Future of Cryptocurrency Trading - WandaExchange", Keywords: []string{"cryptocurrency", "trading"}},
			FeaturedImage:    &content.Media{URL: "/uploads/future-trading.jpg", AlternativeText: "Trading chart", Width: 1200, Height: 630},
			Tags:             ref(content.LocaleEnglish, "cryptocurrency", "trading"),
		},
		{
			Title:            "Przyszłość Handlu Kryptowalutami",
			Slug:             SlugFutureTradePL,
			Content:          "<p>Handel kryptowalutami znacząco ewoluował w ciągu ostatniej dekady.</p>",
			ShortDescription: "Poznaj najnowsze trendy w handlu.",
			Author:           "Zespół WandaExchange",
			PublicationDate:  date("2025-08-12"),
			Locale:           content.LocalePolish,
			PublishedAt:      published("2025-08-12"),
			Tags:             ref(content.LocalePolish, "kryptowaluty", "handel"),
		},
		{
			Title:            "Bitcoin Halving Explained",
			Slug:             SlugBitcoinHalving,
			Content:          "<p>Every four years the block subsidy is cut in half.</p>",
			ShortDescription: "What the halving means for supply.",
			Author:           "WandaExchange Team",
			PublicationDate:  date("2025-07-01"),
			Locale:           content.LocaleEnglish,
			PublishedAt:      published("2025-07-01"),
			Tags:             ref(content.LocaleEnglish, "bitcoin", "cryptocurrency"),
		},
		{
			Title:            "Understanding DeFi",
			Slug:             SlugDefiGuide,
			Content:          "<p>Decentralized finance removes intermediaries.</p>",
			ShortDescription: "A complete guide to decentralized finance.",
			Author:           "WandaExchange Team",
			PublicationDate:  date("2025-06-01"),
			Locale:           content.LocaleEnglish,
			PublishedAt:      published("2025-06-01"),
			Tags:             ref(content.LocaleEnglish, "blockchain"),
		},
		{
			Title:            "Upcoming Ethereum Upgrade",
			Slug:             SlugEthereumDraft,
			Content:          "<p>Draft notes on the next network upgrade.</p>",
			ShortDescription: "What the upgrade means for crypto holders.",
			Author:           "WandaExchange Team",
			PublicationDate:  date("2025-09-01"),
			Locale:           content.LocaleEnglish,
			Tags:             ref(content.LocaleEnglish, "cryptocurrency", "bitcoin"),
		},
		{
			Title:            "Bitcoin dla początkujących",
			Slug:             SlugBitcoinPL,
			Content:          "<p>Pierwsze kroki z bitcoinem.</p>",
			ShortDescription: "Przewodnik dla nowych inwestorów.",
			Author:           "Zespół WandaExchange",
			PublicationDate:  date("2025-05-01"),
			Locale:           content.LocalePolish,
			PublishedAt:      published("2025-05-01"),
			Tags:             ref(content.LocalePolish, "bitcoin"),
		},
	}
	for _, a := range articles {
		created, err := s.CreateArticle(ctx, a)
		require.NoError(t, err)
		fx.Articles[string(created.Locale)+"/"+created.Slug] = created
	}

	return fx
}
