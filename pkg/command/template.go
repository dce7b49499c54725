package command

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	errUtils "github.com/sul-dlss/ld4p-deploy/errors"
	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

// argsRef matches a template that reads the invocation arguments.
var argsRef = regexp.MustCompile(`\.Args\b`)

// FromTask renders the task's templates against data and returns the command for one host.
// Runtime arguments in data.Args replace the task's default arguments. The resulting
// arguments are appended after the task's own args, unless one of those templates
// already consumes them through `.Args`.
func FromTask(task *schema.Task, data schema.TemplateData) (Spec, error) {
	if len(data.Args) == 0 {
		data.Args = task.DefaultArgs
	}

	executable, err := render("command", task.Command, data)
	if err != nil {
		return Spec{}, err
	}

	var args []string
	consumed := false
	for i, arg := range task.Args {
		rendered, err := render(fmt.Sprintf("args[%d]", i), arg, data)
		if err != nil {
			return Spec{}, err
		}
		consumed = consumed || argsRef.MatchString(arg)
		args = append(args, rendered)
	}
	if !consumed {
		args = append(args, data.Args...)
	}

	dir := data.ReleasePath
	if task.WorkingDirectory != "" {
		dir, err = render("working_directory", task.WorkingDirectory, data)
		if err != nil {
			return Spec{}, err
		}
	}

	var env map[string]string
	if len(task.Env) > 0 {
		env = make(map[string]string, len(task.Env))
		for k, v := range task.Env {
			rendered, err := render("env."+k, v, data)
			if err != nil {
				return Spec{}, err
			}
			env[k] = rendered
		}
	}

	return Spec{Executable: executable, Args: args, Dir: dir, Env: env}, nil
}

func render(name, text string, data schema.TemplateData) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errUtils.ErrTemplateRender, name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", errUtils.ErrTemplateRender, name, err)
	}
	return buf.String(), nil
}
