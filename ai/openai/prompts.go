package openai

const propositionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "propositions": {
      "type": "array",
      "items": {
        "type": "string"
      }
    }
  },
  "required": ["propositions"],
  "additionalProperties": false
}`

const propositionPrompt = `Decompose the given sentence into simple, self-contained propositions and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

` + propositionResponseSchema + `

Rules:
- Replace every pronoun and implicit reference with its explicit referent.
- Each proposition must be a complete, grammatical sentence that is true on its own.
- Preserve the meaning of the input exactly. Do not add, infer, or drop information.
- Keep legal citations, article numbers, and defined terms verbatim.
- If the sentence is already self-contained, return it unchanged as a single proposition.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "It shall be notified to the Commission within two months."
Output:
{
  "propositions": [
    "The aid measure shall be notified to the Commission within two months."
  ]
}

Example (already self-contained):
Input: "Article 88 of the Treaty applies to aid granted by Member States."
Output:
{
  "propositions": [
    "Article 88 of the Treaty applies to aid granted by Member States."
  ]
}

Example (compound sentence):
Input: "The Commission reviewed the scheme and found that it distorted competition."
Output:
{
  "propositions": [
    "The Commission reviewed the aid scheme.",
    "The Commission found that the aid scheme distorted competition."
  ]
}`
