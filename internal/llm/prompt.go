package llm

import "fmt"

const titleSystem = "You are an assistant that extracts structured guitar details from a title."

func titlePrompt(title string) string {
	return fmt.Sprintf(`
Extract the following fields from the guitar title and return a valid JSON object with keys "brand", "model", and "type".
Only use the following set of values for the "type" field: {electric, hollow body electric, acoustic, bass}.
If the guitar type in the title does not match any of these, return "other" for the type.

Examples:
Title: "Epiphone Les Paul Standard electric guitar"
Output: {"brand": "Epiphone", "model": "Les Paul Standard", "type": "electric"}

Title: "Gibson EB-3 bass guitar, made in USA"
Output: {"brand": "Gibson", "model": "EB-3", "type": "bass"}

Title: "Lowden F22 acoustic guitar, made in Ireland"
Output: {"brand": "Lowden", "model": "F22", "type": "acoustic"}

Title: "Heritage H-575 hollow body electric guitar, made in USA"
Output: {"brand": "Heritage", "model": "H-575", "type": "hollow body electric"}

Now, extract the fields from the following title:
%q

RETURN ONLY A VALID JSON WITH THE SPECIFIED KEYS.`, title)
}

const valuationSystem = "You are a market analyst who provides valuations for guitars"

func valuationPrompt(description string) string {
	return fmt.Sprintf(`
You are a market analyst specialized in evaluating guitars.
Evaluate the second-hand market value for the following guitar details:
%s

Your valuation should:
    - Focus on the UK market
    - Take into account:
        - Any information on condition
        - The materials the guitar is made of
        - Supplied accessories
        - Desirability of the specific model
        - Brand reputation
        - Year of manufacture
    - Include upper and lower value estimates for this market (in £s)
    - Include a brief explanation of your evaluation, consisting of no more than %d characters.

Use the high and low value estimates to define a range of possible values that reflects the confidence in your evaluation. The same value should not be repeated in both fields unless you are highly confident in your estimate!

The output should be a valid JSON object of the following format:

{
    "value_estimate_low": <lower end of value estimate range, integer>,
    "value_estimate_high": <upper end of value estimate range, integer>,
    "rationale": <explanation of value estimate>
}

RETURN ONLY A VALID JSON WITH THE SPECIFIED KEYS.`, description, maxRationale)
}
