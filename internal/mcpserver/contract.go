package mcpserver

// ReflectionContract describes the canonical reflection structure that LLM
// consumers should follow when saving to the Elysia board.
const ReflectionContract = `# Elysia Reflection Format Contract

Every reflection saved to the Elysia board MUST follow this structure.

## Fields

- **title** (required) — a short evocative heading in English.
- **body** (required) — the reflection text in English. Plain prose,
  no Markdown headings, no HTML.
- **author** (optional) — display name of the writer. Defaults to "Muse"
  for AI-assisted reflections so readers can tell them apart.
- **albumSlug** (optional) — the catalog slug of the album the reflection
  responds to. Use the lookup_album tool to find it; never guess a slug.

## Rules

1. **Write as a listener, not a critic.** Reflections are personal responses
   to the music, 2–6 short paragraphs.
2. **Reference one album at most.** If the reflection spans several works,
   leave albumSlug empty.
3. **No promotional copy.** Links, hashtags, and calls to action are
   rejected by moderation.
4. **Korean variants** (titleKR/bodyKR) are added by the translation
   pipeline afterwards; do not submit machine-translated Korean yourself.
5. **Encoding** is UTF-8.

## Example

title: After the last chord
body: The suite ends but the room keeps ringing. I sat with the silence
for a full minute before I could move...
albumSlug: resonance-after-the-first-suite
`
