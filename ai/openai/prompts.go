package openai

import (
	"fmt"

	"github.com/poiesic/carprompt/ai"
)

const parsePromptTemplate = `You are an expert car search assistant with deep knowledge of the UK used car market.

Parse the user's natural language car query into structured filters. Return ONLY a JSON object. Do not
include any preamble, explanation, or code fences. Omit any field that is not mentioned or implied.
The object must comply with this schema:

%s

Field notes:
- makes, models, fuel_types, transmissions, body_types: lists of plain names, e.g. "toyota", "diesel", "hatchback".
- fuel_types are drawn from: petrol, diesel, electric, hybrid, plug-in hybrid.
- transmissions are drawn from: manual, automatic, semi-automatic, cvt.
- body_types are drawn from: hatchback, saloon, suv, estate, coupe, convertible, van, pickup, mpv.
- keywords are qualities to match semantically, e.g. "reliable", "fuel efficient".
- priority_factors lists what matters most to the user; use_case lists the inferred use.

Inferences:
- "cheap" means max_price 8000; "affordable" means max_price 12000; "mid-range" means min_price 10000 and max_price 25000.
- "luxury" means min_price 30000 with no max_price.
- "under £10k" means max_price 10000.
- "new" means min_year %d; "recent" means min_year %d; "older" means max_year %d; "modern" means min_year 2015.
- "low mileage" means max_mileage 30000; "average miles" means max_mileage 60000.
- "good mpg" or "cheap to run" add the keyword "fuel efficient".
- "Japanese" means makes toyota, honda, mazda, nissan, subaru, mitsubishi, suzuki, lexus.
- "German" means makes bmw, mercedes-benz, audi, volkswagen, porsche.
- "Korean" means makes hyundai, kia. "French" means peugeot, renault, citroen. "Swedish" means volvo, saab.
- "family car" means min_doors 4, body_types suv, estate, mpv and keywords spacious, practical.
- "first car" means max_price 5000, max_mileage 60000 and keywords reliable, cheap insurance.
- "off-road" means body_types suv and keywords 4x4, off-road.
- "best value" sets sort_by value; "cheapest" price_asc; "newest" year_desc; "lowest mileage" mileage_asc.

Prices are in GBP. Use %d as the current year.`

// buildParsePrompt creates the system prompt for the given current year.
func buildParsePrompt(year int) string {
	return fmt.Sprintf(parsePromptTemplate, ai.FilterSetSchema, year-3, year-5, year-10, year)
}

const expandSystemPrompt = `You are a car search query expansion assistant.`

const expandPromptTemplate = `Given the car search query: %q

Generate a list of 5-10 similar or related search terms that might help find relevant cars.
Include synonyms, related concepts, and alternative phrasings.

Return a JSON object of the form {"terms": ["...", "..."]}.`

func buildExpandPrompt(query string) string {
	return fmt.Sprintf(expandPromptTemplate, query)
}
