package compiler

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vuengine/vsutrack"
)

// Compiler turns songs into C sources that the engine running on the console
// links against: a header declaring the song and a source file with the
// flattened note data.
type Compiler struct {
	Template *template.Template
}

//go:embed templates/*
var templateFS embed.FS

var songTemplates = []string{"song.h", "song.c"}

// New returns a new compiler using the default templates.
func New() (*Compiler, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Compiler{Template: tmpl}, nil
}

// NewFromTemplates returns a new compiler using the templates found in the
// given directory. The directory should contain song.h and song.c.
func NewFromTemplates(templateDirectory string) (*Compiler, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Compiler{Template: tmpl}, nil
}

// Song compiles the song. The returned map is keyed by file extension (".h"
// and ".c").
func (com *Compiler) Song(song *vsutrack.Song) (map[string]string, error) {
	macros, err := NewSongMacros(song)
	if err != nil {
		return nil, fmt.Errorf(`could not encode song: %w`, err)
	}
	retmap := map[string]string{}
	for _, templateName := range songTemplates {
		populatedTemplate, extension, err := com.compile(templateName, macros)
		if err != nil {
			return nil, fmt.Errorf(`could not execute template "%v": %v`, templateName, err)
		}
		retmap[extension] = populatedTemplate
	}
	return retmap, nil
}

func (com *Compiler) compile(templateName string, data any) (string, string, error) {
	result := bytes.NewBufferString("")
	err := com.Template.ExecuteTemplate(result, templateName, data)
	extension := filepath.Ext(templateName)
	return result.String(), extension, err
}
