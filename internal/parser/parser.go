package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	coreerrors "sigwatch/internal/core/errors"
)

// SourceFile is one parsed source file. The underlying tree stays open for the
// lifetime of the analysis; Close releases it.
type SourceFile struct {
	Path     string
	Language string
	Source   []byte

	tree *sitter.Tree
}

type Parser struct {
	loader *GrammarLoader
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{loader: loader}
}

func (p *Parser) ParseFile(path string, content []byte) (*SourceFile, error) {
	lang := DetectLanguage(path)
	if lang == "" {
		err := coreerrors.New(coreerrors.CodeNotSupported, "unsupported language")
		return nil, coreerrors.AddContext(err, coreerrors.CtxPath, path)
	}

	grammar := p.loader.Language(lang)
	if grammar == nil {
		err := coreerrors.New(coreerrors.CodeInternal, "grammar not loaded")
		return nil, coreerrors.AddContext(err, coreerrors.CtxLanguage, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeInternal, "set language")
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		err := coreerrors.New(coreerrors.CodeParseFailed, "parse failed")
		return nil, coreerrors.AddContext(err, coreerrors.CtxPath, path)
	}

	return &SourceFile{
		Path:     path,
		Language: lang,
		Source:   content,
		tree:     tree,
	}, nil
}

func (f *SourceFile) Root() *sitter.Node {
	return f.tree.RootNode()
}

func (f *SourceFile) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

func (f *SourceFile) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(f.Source)
}

func (f *SourceFile) Location(node *sitter.Node) Location {
	return Location{
		File:   f.Path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}
