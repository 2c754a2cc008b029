package commands

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/struktos/struktgen/internal/codegen"
)

// Prompter asks the user for anything the command line left out
type Prompter interface {
	// CompleteRequest fills in the name and options of req for kind.
	CompleteRequest(kind codegen.Kind, req *codegen.Request) error
	// ConfirmOverwrite asks whether an existing file may be replaced.
	ConfirmOverwrite(path string) (bool, error)
}

type huhPrompter struct {
	// For testing: if set, forms run inside a tea program with these options
	programOptions []tea.ProgramOption
}

func newHuhPrompter(opts ...tea.ProgramOption) *huhPrompter {
	return &huhPrompter{programOptions: opts}
}

func (p *huhPrompter) run(form *huh.Form) error {
	if len(p.programOptions) > 0 {
		program := tea.NewProgram(form, p.programOptions...)
		_, err := program.Run()
		return err
	}
	return form.Run()
}

func (p *huhPrompter) CompleteRequest(kind codegen.Kind, req *codegen.Request) error {
	if req.Options == nil {
		req.Options = map[string]string{}
	}

	name := req.Name
	var fields []huh.Field
	if name == "" {
		fields = append(fields, huh.NewInput().
			Title("Name").
			Description(fmt.Sprintf("Name of the %s", kind.Name)).
			Value(&name).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("name cannot be empty")
				}
				return nil
			}))
	}

	strs := map[string]*string{}
	bools := map[string]*bool{}
	for _, opt := range kind.Options {
		current, set := req.Options[opt.Name]
		if set && current != "" {
			continue
		}

		switch {
		case opt.Bool:
			v := false
			bools[opt.Name] = &v
			fields = append(fields, huh.NewConfirm().Title(opt.Usage).Value(&v))
		case opt.Name == codegen.OptAction:
			v := opt.Default
			strs[opt.Name] = &v
			options := make([]huh.Option[string], 0, len(codegen.Actions))
			for _, a := range codegen.Actions {
				options = append(options, huh.NewOption(string(a), string(a)))
			}
			fields = append(fields, huh.NewSelect[string]().
				Title("Action").
				Description(opt.Usage).
				Options(options...).
				Value(&v))
		default:
			v := ""
			strs[opt.Name] = &v
			fields = append(fields, huh.NewInput().
				Title(opt.Name).
				Description(opt.Usage).
				Placeholder(opt.Default).
				Value(&v))
		}
	}

	if len(fields) == 0 {
		return nil
	}
	if err := p.run(huh.NewForm(huh.NewGroup(fields...))); err != nil {
		return err
	}

	req.Name = name
	for key, v := range strs {
		if *v != "" {
			req.Options[key] = *v
		}
	}
	for key, v := range bools {
		req.Options[key] = strconv.FormatBool(*v)
	}
	return nil
}

func (p *huhPrompter) ConfirmOverwrite(path string) (bool, error) {
	var overwrite bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
				Value(&overwrite),
		),
	)
	if err := p.run(form); err != nil {
		return false, err
	}
	return overwrite, nil
}
