package ai

// ImageDescriptionPrompt is sent to the vision model for raster images and
// embedded document images.
const ImageDescriptionPrompt = `Describe this image in detail for a knowledge base. If it contains text, charts, or diagrams, transcribe and summarize them accurately.`

// ExtractGraphPrompt is the system prompt for graph extraction. Placeholders:
// role framing, task instructions, allowed node types, allowed edge
// relationships. The node and edge vocabularies are presented as closed
// enumerations to bias the model toward consistent labels.
const ExtractGraphPrompt = `
# Task Context
%s

# Detailed Task Description & Rules
%s
- Only use node types from this list: [%s].
- Only use edge relationships from this list: [%s].
- Edge "source" and "target" must exactly match the "label" of a node in the same response.
- Do not invent entities that are not supported by the text.

# Output Formatting
Return a JSON object with this structure:
{
  "nodes": [{"label": "Name", "type": "<one of the node types>"}],
  "edges": [{"source": "Name", "target": "Name", "relationship": "<one of the edge relationships>"}]
}
Output must be valid JSON only (no commentary, no extra text).
`
