package mcpserver

// RecordFormatContract describes the canonical record format that
// LLM consumers should follow when authoring records.
const RecordFormatContract = `# Ansuz Record Format Contract

Every Markdown record stored in Ansuz MUST follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title         # REQUIRED - primary display name
status: proposed                    # OPTIONAL - proposed | accepted | deprecated | superseded
category: database                  # RECOMMENDED - single grouping label
description: One-line summary       # RECOMMENDED - shown in listings
created: 2025-01-15                 # RECOMMENDED - ISO-8601 calendar date
updated: 2025-02-01                 # OPTIONAL - ISO-8601 calendar date
author: Jane Doe                    # OPTIONAL
project: project-x                  # OPTIONAL
tags:                               # OPTIONAL - YAML list, used for filtering
  - tag-one
technologies:                       # OPTIONAL - YAML list
  - postgresql
related:                            # OPTIONAL - IDs of related records
  - other-record
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. **YAML frontmatter is mandatory.** The ` + "`" + `---` + "`" + ` fences must be the first
   thing in the file (no leading blank lines).
2. **` + "`" + `title` + "`" + ` field is required.** A record with an empty title is
   rejected at decode time.
3. **Status** is one of ` + "`" + `proposed` + "`" + `, ` + "`" + `accepted` + "`" + `, ` + "`" + `deprecated` + "`" + `,
   ` + "`" + `superseded` + "`" + ` (case-insensitive). Unknown values fall back to
   ` + "`" + `proposed` + "`" + `.
4. **Dates** use the ` + "`" + `YYYY-MM-DD` + "`" + ` form. A malformed date rejects the
   whole record.
5. **Related references** name target record IDs. The optional ` + "`" + `.md` + "`" + `
   extension is stripped; references to unknown records are allowed and
   appear in the graph as placeholder nodes.
6. **File paths** end with ` + "`" + `.md` + "`" + ` and the filename stem is the record ID.
7. **Encoding** is UTF-8 with a trailing newline.

## Example

` + "```" + `markdown
---
title: Use PostgreSQL for persistence
status: accepted
category: database
description: PostgreSQL becomes the primary datastore.
created: 2025-01-15
tags:
  - storage
related:
  - use-connection-pooling
---

# Use PostgreSQL for persistence

## Context

We need a durable relational store.

## Decision

We will use PostgreSQL.
` + "```" + `
`
