package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vuengine/vsutrack"
	"github.com/vuengine/vsutrack/compiler"
	"github.com/vuengine/vsutrack/version"
)

func filterExtensions(input map[string]string, extensions []string) map[string]string {
	ret := map[string]string{}
	for _, ext := range extensions {
		extWithDot := "." + ext
		if inputVal, ok := input[extWithDot]; ok {
			ret[extWithDot] = inputVal
		}
	}
	return ret
}

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	list := flag.Bool("l", false, "Do not write files; just list files that would change instead.")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	jsonOut := flag.Bool("j", false, "Output the song as .json file instead of compiling.")
	yamlOut := flag.Bool("y", false, "Output the song as .yml file instead of compiling.")
	tmplDir := flag.String("t", "", "When compiling, use the templates in this directory instead of the standard templates.")
	outDir := flag.String("o", "", "Directory where to write compiled code. The directory and its parents are created if needed. By default, everything is placed in the current working directory.")
	extensionsOut := flag.String("e", "", "Output only the compiled files with these comma separated extensions. For example: h,c")
	strict := flag.Bool("strict", false, "Refuse to compile songs that do not validate.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	compile := !*jsonOut && !*yamlOut // if the user gives nothing to output, then the default behaviour is to compile the file
	var comp *compiler.Compiler
	if compile {
		var err error
		if *tmplDir != "" {
			comp, err = compiler.NewFromTemplates(*tmplDir)
		} else {
			comp, err = compiler.New()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating compiler: %v\n", err)
			os.Exit(1)
		}
	}
	// output writes the contents to <name><extension>; the compiled files are
	// named after the song identifier, as the source includes the header by
	// that name
	output := func(name string, extension string, contents []byte) error {
		if *stdout {
			fmt.Print(string(contents))
			return nil
		}
		dir := *outDir
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("could not get working directory, specify the output directory explicitly: %w", err)
			}
		}
		f := filepath.Join(dir, name+extension)
		original, err := os.ReadFile(f)
		if err == nil {
			if bytes.Equal(original, contents) {
				return nil // no need to update
			}
			if !*list && *safe {
				return fmt.Errorf("file %v would be overwritten by compiler", f)
			}
		}
		if *list {
			fmt.Println(f)
			return nil
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %w", dir, err)
		}
		if err := os.WriteFile(f, contents, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %w", f, err)
		}
		return nil
	}
	process := func(filename string) error {
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %w", filename, err)
		}
		song, err := vsutrack.ReadSong(inputBytes)
		if err != nil {
			return err
		}
		if err := song.Validate(); err != nil {
			if *strict {
				return fmt.Errorf("invalid song: %w", err)
			}
			fmt.Fprintf(os.Stderr, "warning: %v: %v\n", filename, err)
		}
		if compile {
			compiledSong, err := comp.Song(&song)
			if err != nil {
				return fmt.Errorf("compiling song failed: %w", err)
			}
			if len(*extensionsOut) > 0 {
				compiledSong = filterExtensions(compiledSong, strings.Split(*extensionsOut, ","))
			}
			for extension, code := range compiledSong {
				if err := output(compiler.SongIdent(&song), extension, []byte(code)); err != nil {
					return fmt.Errorf("error outputting %v file: %w", extension, err)
				}
			}
		}
		base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		if *jsonOut {
			jsonSong, err := json.Marshal(song)
			if err != nil {
				return fmt.Errorf("could not marshal the song as json file: %w", err)
			}
			if err := output(base, ".json", jsonSong); err != nil {
				return fmt.Errorf("error outputting json file: %w", err)
			}
		}
		if *yamlOut {
			yamlSong, err := vsutrack.MarshalSong(&song)
			if err != nil {
				return fmt.Errorf("could not marshal the song as yaml file: %w", err)
			}
			if err := output(base, ".yml", yamlSong); err != nil {
				return fmt.Errorf("error outputting yaml file: %w", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		files := []string{param}
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			jsonfiles, err := filepath.Glob(filepath.Join(param, "*.json"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for json files: %v\n", param, err)
				retval = 1
				continue
			}
			ymlfiles, err := filepath.Glob(filepath.Join(param, "*.yml"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for yml files: %v\n", param, err)
				retval = 1
				continue
			}
			files = append(ymlfiles, jsonfiles...)
		}
		for _, file := range files {
			if err := process(file); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "vsutrack-compile compiles songs into C sources for the engine.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
