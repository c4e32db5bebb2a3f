package mcpserver

// FilterSyntaxContract documents the query-string filter vocabulary for
// LLM consumers. It is the same contract the web UI writes into the
// address bar, so expressions can be copied between the two verbatim.
const FilterSyntaxContract = `# Posverdad Filter Syntax

Filter expressions are URL query strings. A leading "?" is optional.
All predicates are AND-combined; an omitted key leaves that dimension
unconstrained.

## Keys

| Key     | Type   | Meaning                                              |
|---------|--------|------------------------------------------------------|
| q       | string | Case-insensitive substring match on title and url    |
| source  | string | Source name; repeat the key to allow several sources |
| from    | date   | Earliest published_at (inclusive)                    |
| to      | date   | Latest published_at (inclusive)                      |
| lenMin  | number | Minimum article length in characters (inclusive)     |
| lenMax  | number | Maximum article length in characters (inclusive)     |
| polMin  | number | Minimum polarity, -1..1 (inclusive)                  |
| polMax  | number | Maximum polarity, -1..1 (inclusive)                  |
| subMin  | number | Minimum subjectivity, 0..1 (inclusive)               |
| subMax  | number | Maximum subjectivity, 0..1 (inclusive)               |

## Rules

1. Dates accept RFC 3339 ("2024-05-01T12:00:00Z") or a bare day
   ("2024-05-01"). Bare days are midnight UTC.
2. Numbers use plain decimal notation ("0.5", "-1", "100").
3. Values are URL-encoded; spaces may be "+" or "%20".
4. Malformed values are ignored, never an error: a filter that cannot
   be parsed behaves as if the key were absent.
5. Unknown keys are ignored.

## Examples

- ` + "`?q=chile`" + ` — title or url contains "chile".
- ` + "`?source=Fuente+X&source=Fuente+Y`" + ` — either source.
- ` + "`?polMin=0`" + ` — non-negative polarity only.
- ` + "`?from=2024-05-01&to=2024-05-02&lenMin=1000`" + ` — a date window
  combined with a length floor.
`
