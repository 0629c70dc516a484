package resolver

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Canonical field names. These are the pipeline-internal attribute names;
// the spreadsheets may call the columns anything the alias lists cover.
const (
	FieldID        = "id"
	FieldNome      = "nome"
	FieldPreco     = "preco"
	FieldCategoria = "categoria"

	FieldComprador = "comprador"
	FieldProduto   = "produto"

	FieldUnidade          = "unidade"
	FieldSetor            = "setor"
	FieldCodRevendedora   = "codigo_revendedora"
	FieldNomeRevendedora  = "nome_revendedora"
	FieldCodProduto       = "codigo_produto"
	FieldNomeProduto      = "nome_produto"
	FieldTipo             = "tipo"
	FieldItens            = "itens"
	FieldValor            = "valor"
)

//go:embed aliases.yaml
var defaultAliases []byte

// Table maps a canonical field to its ordered alias list for one table kind.
type Table map[string][]string

// Aliases returns the alias list for a field, nil when the field is unknown.
func (t Table) Aliases(field string) []string {
	return t[field]
}

// Config holds the alias tables for the three table kinds. It is data: the
// matching algorithm never hardcodes a column name.
type Config struct {
	Catalog Table `yaml:"catalog"`
	Buyers  Table `yaml:"buyers"`
	Ledger  Table `yaml:"ledger"`
}

// Default returns the embedded alias tables.
func Default() *Config {
	cfg, err := parse(defaultAliases)
	if err != nil {
		// The embedded file ships with the binary; failing to parse it is a
		// build defect, not a runtime condition.
		panic("resolver: embedded aliases.yaml invalid: " + err.Error())
	}
	return cfg
}

// Load reads alias tables from a YAML file, falling back to the embedded
// defaults when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("alias config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("alias config: %w", err)
	}
	for kind, tbl := range map[string]Table{"catalog": cfg.Catalog, "buyers": cfg.Buyers, "ledger": cfg.Ledger} {
		if len(tbl) == 0 {
			return nil, fmt.Errorf("alias config: missing %q table", kind)
		}
	}
	return &cfg, nil
}
