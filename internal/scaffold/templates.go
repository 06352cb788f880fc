package scaffold

// Templates for the files a new agent starts with. Rendered with text/template
// against templateData.

const agentManifestTemplate = `# Agent manifest. Discovered through the workspace members in agents.toml.
[agent]
name = "{{.Name}}"
{{- if .Module}}
module = "{{.Module}}"
{{- end}}

# Optional: merge shared task definitions.
# include = "../shared-tasks.toml"

[tasks]
test = "go test ./..."
lint = "golangci-lint run ./..."
`

const readmeTemplate = `# {{.Name}}

Describe what this agent does and how to run it.

## Development

Common tasks, run from the workspace root:

` + "```" + `
agentctl run test {{.Name}}
agentctl docs --agents-only --agents {{.Name}}
` + "```" + `
`

const docsIndexTemplate = `{{.Name}}
{{.Underline}}

.. toctree::
   :maxdepth: 2
   :caption: Contents:
`
