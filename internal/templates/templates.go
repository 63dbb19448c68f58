// Package templates renders the starter files groundwork init writes.
package templates

import (
	"bytes"
	"text/template"
)

// ManifestData contains data for the starter manifest template.
type ManifestData struct {
	HostAlias    string // short name for the ssh client host block
	HostName     string // address the alias points at
	User         string // account to provision for
	Port         int
	ForwardAgent bool
	NodeChannel  string // NodeSource channel: "lts", "current", or a major like "22"
	Banner       string // login banner command
	GitName      string
	GitEmail     string
}

// DefaultManifestData returns the values the init wizard starts from.
func DefaultManifestData() ManifestData {
	return ManifestData{
		HostAlias:   "forge",
		HostName:    "forge.example.com",
		User:        "dev",
		Port:        22,
		NodeChannel: "lts",
		Banner:      "fastfetch",
	}
}

// manifestTemplateStr is the starter groundwork.yaml. It names every
// provider so the file doubles as schema documentation; unwanted
// sections are deleted, not disabled.
const manifestTemplateStr = `# groundwork manifest
# Preview with 'groundwork plan', converge with 'groundwork up'.
version: 1

# Providers run in this order. Remove a name to skip its section.
sequence:
  - apt
  - docker
  - node
  - npm
  - ssh
  - motd
  - starship
  - shell
  - git

apt:
  update: true
  packages:
    - build-essential
    - curl
    - git
    - htop
    - jq
    - ripgrep
    - tmux
    - unzip
  optional:
    - {{ .Banner }}

docker:
  install: true
  users:
    - {{ .User }}

node:
  channel: {{ .NodeChannel }}

# Without a packages list, npm installs the default CLI set.
npm: {}

ssh:
  import_key: true{{ if .HostAlias }}
  hosts:
    - host: {{ .HostAlias }}{{ if .HostName }}
      hostname: {{ .HostName }}{{ end }}
      user: {{ .User }}{{ if .Port }}
      port: {{ .Port }}{{ end }}{{ if .ForwardAgent }}
      forward_agent: true{{ end }}{{ end }}

motd:
  banner: {{ .Banner }}

starship: {}

shell:
  startup_file: ~/.bashrc
  env:
    EDITOR: vim
  aliases:
    ll: ls -alF
    gs: git status
{{ if or .GitName .GitEmail }}
git:
  user:{{ if .GitName }}
    name: {{ .GitName }}{{ end }}{{ if .GitEmail }}
    email: {{ .GitEmail }}{{ end }}
  aliases:
    st: status
    co: checkout
{{ end }}`

// GenerateManifest generates a starter groundwork.yaml from the
// template. Structural fields left empty fall back to the defaults so
// the output always parses.
func GenerateManifest(data ManifestData) (string, error) {
	defaults := DefaultManifestData()
	if data.User == "" {
		data.User = defaults.User
	}
	if data.NodeChannel == "" {
		data.NodeChannel = defaults.NodeChannel
	}
	if data.Banner == "" {
		data.Banner = defaults.Banner
	}

	tmpl, err := template.New("manifest").Parse(manifestTemplateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
