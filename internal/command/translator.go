// Package command translates kubectl-style verb and argument lists into
// cluster session calls and renders the results as text.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/yaml"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
	"github.com/kubeops-ai/kubeops/internal/k8s"
	"github.com/kubeops-ai/kubeops/internal/logging"
)

// supportedVerbs is the closed set the translator routes. Anything else
// is rejected before touching the cluster.
var supportedVerbs = map[string]bool{
	"get":          true,
	"describe":     true,
	"delete":       true,
	"scale":        true,
	"logs":         true,
	"top":          true,
	"config":       true,
	"cluster-info": true,
	"version":      true,
}

// Translator routes parsed command lines onto a cluster session.
type Translator struct {
	client k8s.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewTranslator creates a translator bound to one session.
func NewTranslator(client k8s.Client, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes one verb with its argument list and returns the rendered
// text output.
func (t *Translator) Run(ctx context.Context, verb string, args []string) (string, error) {
	verb = strings.ToLower(strings.TrimSpace(verb))
	if !supportedVerbs[verb] {
		return "", &errdefs.UnsupportedCommandError{Verb: verb}
	}

	parsed, err := parseArgs(args)
	if err != nil {
		return "", err
	}

	t.logger.Debug("translating command",
		logging.Operation(verb),
		logging.Namespace(parsed.namespace))

	switch verb {
	case "get":
		return t.runGet(ctx, parsed)
	case "describe":
		return t.runDescribe(ctx, parsed)
	case "delete":
		return t.runDelete(ctx, parsed)
	case "scale":
		return t.runScale(ctx, parsed)
	case "logs":
		return t.runLogs(ctx, parsed)
	case "top":
		return t.runTop(ctx, parsed)
	case "config":
		return t.runConfig(ctx, parsed)
	case "cluster-info":
		return t.runClusterInfo(ctx)
	default: // version
		return t.client.ServerVersion(ctx)
	}
}

// parsedArgs is the flag/positional split of one argument list.
type parsedArgs struct {
	positional []string
	namespace  string
	container  string
	replicas   *int32
	tail       *int64
	selector   string
	previous   bool
	timestamps bool
}

// parseArgs separates kubectl-style flags from positional arguments.
// Flags accept both "--flag value" and "--flag=value" spellings.
func parseArgs(args []string) (parsedArgs, error) {
	var parsed parsedArgs
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			parsed.positional = append(parsed.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", errdefs.NewValidationError("flag %s requires a value", name)
			}
			i++
			return args[i], nil
		}

		switch name {
		case "-n", "--namespace":
			v, err := takeValue()
			if err != nil {
				return parsedArgs{}, err
			}
			parsed.namespace = v
		case "-c", "--container":
			v, err := takeValue()
			if err != nil {
				return parsedArgs{}, err
			}
			parsed.container = v
		case "-l", "--selector":
			v, err := takeValue()
			if err != nil {
				return parsedArgs{}, err
			}
			parsed.selector = v
		case "--replicas":
			v, err := takeValue()
			if err != nil {
				return parsedArgs{}, err
			}
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil {
				return parsedArgs{}, errdefs.NewValidationError("invalid replica count %q", v)
			}
			replicas := int32(n)
			parsed.replicas = &replicas
		case "--tail":
			v, err := takeValue()
			if err != nil {
				return parsedArgs{}, err
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return parsedArgs{}, errdefs.NewValidationError("invalid tail count %q", v)
			}
			parsed.tail = &n
		case "--previous", "-p":
			parsed.previous = true
		case "--timestamps":
			parsed.timestamps = true
		default:
			return parsedArgs{}, errdefs.NewValidationError("unknown flag %q", name)
		}
	}
	return parsed, nil
}

func (t *Translator) runGet(ctx context.Context, parsed parsedArgs) (string, error) {
	if len(parsed.positional) == 0 {
		return "", errdefs.NewValidationError("get requires a resource type")
	}
	resourceType := parsed.positional[0]

	// "get type name" renders one object; "get type" renders a table.
	if len(parsed.positional) > 1 {
		obj, err := t.client.Get(ctx, parsed.namespace, resourceType, parsed.positional[1])
		if err != nil {
			return "", err
		}
		return renderYAML(obj.Object)
	}

	list, err := t.client.List(ctx, parsed.namespace, resourceType, k8s.ListOptions{
		LabelSelector: parsed.selector,
	})
	if err != nil {
		return "", err
	}
	return t.renderList(resourceType, list), nil
}

func (t *Translator) renderList(resourceType string, list *unstructured.UnstructuredList) string {
	if len(list.Items) == 0 {
		return "No resources found\n"
	}

	now := t.now()
	isPods := strings.HasPrefix(strings.ToLower(resourceType), "po")
	headers := []string{"NAME", "AGE"}
	if isPods {
		headers = []string{"NAME", "STATUS", "AGE"}
	}

	rows := make([][]string, 0, len(list.Items))
	for _, item := range list.Items {
		age := FormatAge(item.GetCreationTimestamp().Time, now)
		if isPods {
			phase, _, _ := unstructured.NestedString(item.Object, "status", "phase")
			if phase == "" {
				phase = "Unknown"
			}
			rows = append(rows, []string{item.GetName(), phase, age})
		} else {
			rows = append(rows, []string{item.GetName(), age})
		}
	}
	return FormatTable(headers, rows)
}

func (t *Translator) runDescribe(ctx context.Context, parsed parsedArgs) (string, error) {
	if len(parsed.positional) == 0 {
		return "", errdefs.NewValidationError("describe requires a resource type")
	}
	// "describe type" without a name lists the type, like get.
	if len(parsed.positional) == 1 {
		list, err := t.client.List(ctx, parsed.namespace, parsed.positional[0], k8s.ListOptions{
			LabelSelector: parsed.selector,
		})
		if err != nil {
			return "", err
		}
		return t.renderList(parsed.positional[0], list), nil
	}
	desc, err := t.client.Describe(ctx, parsed.namespace, parsed.positional[0], parsed.positional[1])
	if err != nil {
		return "", err
	}

	out, err := renderYAML(desc.Resource.Object)
	if err != nil {
		return "", err
	}
	if len(desc.Events) == 0 {
		return out, nil
	}

	var b strings.Builder
	b.WriteString(out)
	b.WriteString("\nEvents:\n")
	rows := make([][]string, 0, len(desc.Events))
	for _, ev := range desc.Events {
		rows = append(rows, []string{ev.Type, ev.Reason, ev.Message})
	}
	b.WriteString(FormatTable([]string{"TYPE", "REASON", "MESSAGE"}, rows))
	return b.String(), nil
}

func (t *Translator) runDelete(ctx context.Context, parsed parsedArgs) (string, error) {
	if len(parsed.positional) < 2 {
		return "", errdefs.NewValidationError("delete requires a resource type and name")
	}
	resourceType, name := parsed.positional[0], parsed.positional[1]
	if err := t.client.Delete(ctx, parsed.namespace, resourceType, name); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %q deleted\n", strings.ToLower(resourceType), name), nil
}

func (t *Translator) runScale(ctx context.Context, parsed parsedArgs) (string, error) {
	if len(parsed.positional) == 0 {
		return "", errdefs.NewValidationError("scale requires a type/name target")
	}
	if parsed.replicas == nil {
		return "", errdefs.NewValidationError("scale requires --replicas=N")
	}
	resourceType, name, ok := strings.Cut(parsed.positional[0], "/")
	if !ok || name == "" {
		return "", errdefs.NewValidationError("scale target must be type/name, got %q", parsed.positional[0])
	}
	if err := t.client.Scale(ctx, parsed.namespace, resourceType, name, *parsed.replicas); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s scaled to %d replicas\n", strings.ToLower(resourceType), name, *parsed.replicas), nil
}

func (t *Translator) runLogs(ctx context.Context, parsed parsedArgs) (string, error) {
	if len(parsed.positional) == 0 {
		return "", errdefs.NewValidationError("logs requires a pod name")
	}
	return t.client.GetLogs(ctx, parsed.namespace, parsed.positional[0], parsed.container, k8s.LogOptions{
		TailLines:  parsed.tail,
		Previous:   parsed.previous,
		Timestamps: parsed.timestamps,
	})
}

func (t *Translator) runTop(ctx context.Context, parsed parsedArgs) (string, error) {
	if len(parsed.positional) > 0 && parsed.positional[0] != "pods" && parsed.positional[0] != "pod" {
		return "", &errdefs.UnsupportedResourceError{ResourceType: parsed.positional[0]}
	}
	metrics, err := t.client.TopPods(ctx, parsed.namespace)
	if err != nil {
		return "", err
	}
	if len(metrics) == 0 {
		return "No resources found\n", nil
	}
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{m.Name, m.CPU, m.Memory})
	}
	return FormatTable([]string{"NAME", "CPU", "MEMORY"}, rows), nil
}

func (t *Translator) runConfig(ctx context.Context, parsed parsedArgs) (string, error) {
	if len(parsed.positional) == 0 {
		return "", errdefs.NewValidationError("config requires a subcommand")
	}
	sub := parsed.positional[0]
	switch sub {
	case "current-context":
		return t.client.CurrentContext() + "\n", nil
	case "get-contexts":
		contexts, err := t.client.ListContexts(ctx)
		if err != nil {
			return "", err
		}
		rows := make([][]string, 0, len(contexts))
		for _, kctx := range contexts {
			marker := ""
			if kctx.Current {
				marker = "*"
			}
			rows = append(rows, []string{marker, kctx.Name, kctx.Cluster, kctx.Namespace})
		}
		return FormatTable([]string{"CURRENT", "NAME", "CLUSTER", "NAMESPACE"}, rows), nil
	case "use-context":
		if len(parsed.positional) < 2 {
			return "", errdefs.NewValidationError("use-context requires a context name")
		}
		if err := t.client.SwitchContext(ctx, parsed.positional[1]); err != nil {
			return "", err
		}
		return fmt.Sprintf("Switched to context %q.\n", parsed.positional[1]), nil
	case "set-namespace":
		if len(parsed.positional) < 2 {
			return "", errdefs.NewValidationError("set-namespace requires a namespace name")
		}
		if err := t.client.SetNamespace(ctx, parsed.positional[1]); err != nil {
			return "", err
		}
		return fmt.Sprintf("Namespace set to %q.\n", parsed.positional[1]), nil
	default:
		return "", &errdefs.UnsupportedCommandError{Verb: "config " + sub}
	}
}

func (t *Translator) runClusterInfo(ctx context.Context) (string, error) {
	info, err := t.client.ClusterInfo(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Kubernetes control plane is running at %s\nServer version: %s\nContext: %s\nNamespace: %s\n",
		info.Host, info.Version, info.Context, info.Namespace), nil
}

func renderYAML(obj map[string]any) (string, error) {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("rendering yaml: %w", err)
	}
	return string(data), nil
}
