// Command databind is a binding playground: it loads an HTML fragment
// and a YAML binding manifest, applies path=JSON mutations to the
// document and prints the synchronized result. It demonstrates the
// library against the htmlport driver; it does not persist anything.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atdiar/databind"
	"github.com/atdiar/databind/drivers/htmlport"
)

var (
	htmlFile     string
	manifestFile string
	dataFile     string
	quiet        bool
)

var rootCmd = &cobra.Command{
	Use:   "databind [path=json ...]",
	Short: "Apply data-bound mutations to an HTML fragment",
	Long: `databind loads an HTML fragment and a YAML binding manifest, binds the
matching elements to a JSON document, applies the given path=json
mutations and prints the resulting document and re-rendered HTML.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&htmlFile, "html", "", "HTML file to bind against (required)")
	rootCmd.Flags().StringVar(&manifestFile, "manifest", "", "YAML binding manifest (required)")
	rootCmd.Flags().StringVar(&dataFile, "data", "", "initial JSON document")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress observer output")
	_ = rootCmd.MarkFlagRequired("html")
	_ = rootCmd.MarkFlagRequired("manifest")
}

type manifest struct {
	Bindings  []bindingSpec  `yaml:"bindings"`
	Observers []observerSpec `yaml:"observers"`
}

type bindingSpec struct {
	ID            string `yaml:"id"`
	Tag           string `yaml:"tag"`
	Path          string `yaml:"path"`
	Attribute     string `yaml:"attribute"`
	Event         string `yaml:"event"`
	OneWay        bool   `yaml:"oneway"`
	Boolean       bool   `yaml:"boolean"`
	NegateBoolean bool   `yaml:"negate_boolean"`
}

type observerSpec struct {
	Path string `yaml:"path"`
}

func (s bindingSpec) options() []databind.BindingOption {
	var opts []databind.BindingOption
	if s.Event != "" {
		opts = append(opts, databind.WithEvent(s.Event))
	}
	if s.OneWay {
		opts = append(opts, databind.OneWay())
	}
	if s.Boolean {
		opts = append(opts, databind.AsBoolean())
	}
	if s.NegateBoolean {
		opts = append(opts, databind.AsNegatedBoolean())
	}
	return opts
}

func run(cmd *cobra.Command, args []string) error {
	page, err := os.Open(htmlFile)
	if err != nil {
		return err
	}
	defer page.Close()
	doc, err := htmlport.Parse(page)
	if err != nil {
		return fmt.Errorf("parse %s: %w", htmlFile, err)
	}

	b := databind.New()
	if dataFile != "" {
		raw, err := os.ReadFile(dataFile)
		if err != nil {
			return err
		}
		initial, err := databind.ParseJSON(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", dataFile, err)
		}
		b.Set("", initial)
	}

	raw, err := os.ReadFile(manifestFile)
	if err != nil {
		return err
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("parse %s: %w", manifestFile, err)
	}

	for _, spec := range m.Bindings {
		switch {
		case spec.ID != "":
			b.Bind(elementOrNil(doc.ElementByID(spec.ID)), spec.Path, spec.Attribute, spec.options()...)
		case spec.Tag != "":
			els := doc.ElementsByTagName(spec.Tag)
			ports := make([]databind.UIElementPort, len(els))
			for i, el := range els {
				ports[i] = el
			}
			b.BindAll(ports, spec.Path, spec.Attribute, spec.options()...)
		default:
			return fmt.Errorf("binding for %q needs an id or a tag", spec.Path)
		}
	}
	for _, spec := range m.Observers {
		path := spec.Path
		b.Observe(path, func(n databind.Notification) {
			if quiet {
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "observe %q: %s %s = %s\n",
				path, n.Action, n.ChangedPath, databind.Format(n.Value))
		})
	}

	for _, arg := range args {
		path, jsonValue, found := strings.Cut(arg, "=")
		if !found {
			return fmt.Errorf("bad mutation %q: want path=json", arg)
		}
		var raw any
		if err := json.Unmarshal([]byte(jsonValue), &raw); err != nil {
			return fmt.Errorf("bad value for %q: %w", path, err)
		}
		v, err := databind.FromGo(raw)
		if err != nil {
			return err
		}
		b.Set(path, v)
	}

	out, err := json.MarshalIndent(databind.ToGo(b.Data()), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return doc.Render(cmd.OutOrStdout())
}

// elementOrNil keeps a missing element a typed nil so Bind's warning
// path handles it.
func elementOrNil(el *htmlport.Element) databind.UIElementPort {
	if el == nil {
		return nil
	}
	return el
}
