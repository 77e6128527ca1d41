package search

import (
	"testing"
	"time"

	"github.com/poiesic/carprompt/core"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestPriceScore(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		f     core.FilterSet
		want  float64
	}{
		{"at ideal", 10000, core.FilterSet{MinPrice: core.Ptr(5000.0), MaxPrice: core.Ptr(15000.0)}, 1},
		{"at band edge", 15000, core.FilterSet{MinPrice: core.Ptr(5000.0), MaxPrice: core.Ptr(15000.0)}, 0.5},
		{"max only", 5000, core.FilterSet{MaxPrice: core.Ptr(20000.0)}, 0.75},
		{"far outside band", 100000, core.FilterSet{MinPrice: core.Ptr(5000.0), MaxPrice: core.Ptr(15000.0)}, 0},
		{"no budget uses own price", 8000, core.FilterSet{}, 1},
		{"no budget and free", 0, core.FilterSet{}, 0.5},
		{"zero width band at ideal", 9000, core.FilterSet{MinPrice: core.Ptr(9000.0), MaxPrice: core.Ptr(9000.0)}, 1},
		{"zero width band elsewhere", 9001, core.FilterSet{MinPrice: core.Ptr(9000.0), MaxPrice: core.Ptr(9000.0)}, 0},
		{"min above derived ceiling", 1000, core.FilterSet{MinPrice: core.Ptr(30000.0)}, 0},
		{"zero budget is neutral", 4000, core.FilterSet{MaxPrice: core.Ptr(0.0)}, 0.5},
		{"zero budget and free", 0, core.FilterSet{MinPrice: core.Ptr(0.0), MaxPrice: core.Ptr(0.0)}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PriceScore(tt.price, tt.f), 1e-9)
		})
	}
}

func TestYearScore(t *testing.T) {
	tests := []struct {
		name string
		year int
		f    core.FilterSet
		want float64
	}{
		{"defaults at current year", 2025, core.FilterSet{}, 1},
		{"defaults at floor", 1990, core.FilterSet{}, 0},
		{"before floor", 1975, core.FilterSet{}, 0},
		{"midway", 2019, core.FilterSet{MinYear: core.Ptr(2015), MaxYear: core.Ptr(2023)}, 0.5},
		{"after max", 2024, core.FilterSet{MinYear: core.Ptr(2015), MaxYear: core.Ptr(2023)}, 1},
		{"degenerate inside", 2020, core.FilterSet{MinYear: core.Ptr(2020), MaxYear: core.Ptr(2020)}, 1},
		{"degenerate outside", 2021, core.FilterSet{MinYear: core.Ptr(2020), MaxYear: core.Ptr(2020)}, 0},
		{"min after current year", 2025, core.FilterSet{MinYear: core.Ptr(2030)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, YearScore(tt.year, tt.f, fixedNow), 1e-9)
		})
	}
}

func TestMileageScore(t *testing.T) {
	tests := []struct {
		name    string
		mileage *int
		f       core.FilterSet
		want    float64
	}{
		{"unknown is neutral", nil, core.FilterSet{}, 0.5},
		{"zero", core.Ptr(0), core.FilterSet{}, 1},
		{"negative", core.Ptr(-10), core.FilterSet{}, 1},
		{"half default ceiling", core.Ptr(100000), core.FilterSet{}, 0.5},
		{"over ceiling", core.Ptr(300000), core.FilterSet{}, 0},
		{"custom ceiling", core.Ptr(15000), core.FilterSet{MaxMileage: core.Ptr(60000)}, 0.75},
		{"zero ceiling", core.Ptr(5), core.FilterSet{MaxMileage: core.Ptr(0)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MileageScore(tt.mileage, tt.f), 1e-9)
		})
	}
}

func TestKeywordScore(t *testing.T) {
	listing := &core.Listing{
		Title:       "Reliable Family SUV",
		Description: "Full service history, off-road tyres, sporty-looking alloys",
	}

	tests := []struct {
		name     string
		keywords []string
		want     float64
	}{
		{"no keywords", nil, 0},
		{"all whole words", []string{"reliable", "suv"}, 1},
		{"case insensitive", []string{"RELIABLE", "Family"}, 1},
		{"half found", []string{"reliable", "diesel"}, 0.5},
		{"partial word does not count", []string{"famil"}, 0},
		{"phrase", []string{"service history"}, 1},
		{"hyphenated", []string{"off-road"}, 1},
		{"hyphen splits words", []string{"sporty"}, 1},
		{"regex characters are literal", []string{"s.v"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KeywordScore(listing, tt.keywords), 1e-9)
		})
	}
}

func TestKeywordScore_Accents(t *testing.T) {
	listing := &core.Listing{
		Title:       "Citroën C3 Škoda",
		Description: "très économique, Fabia_combi",
	}

	tests := []struct {
		name     string
		keywords []string
		want     float64
	}{
		{"accented first letter", []string{"škoda"}, 1},
		{"accented upper case keyword", []string{"ÉCONOMIQUE"}, 1},
		{"accent inside word", []string{"citroën"}, 1},
		{"ascii next to accents", []string{"c3"}, 1},
		{"accented letter is a word rune", []string{"econom"}, 0},
		{"prefix of accented word", []string{"écono"}, 0},
		{"underscore joins words", []string{"fabia"}, 0},
		{"accented phrase", []string{"très économique"}, 1},
		{"half found", []string{"škoda", "diesel"}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KeywordScore(listing, tt.keywords), 1e-9)
		})
	}
}
