package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
	"github.com/kubeops-ai/kubeops/internal/k8s"
)

// stubClient records the calls the translator makes. Methods not
// overridden panic through the embedded nil interface, which doubles as
// a guard against unexpected calls.
type stubClient struct {
	k8s.Client

	getObj     *unstructured.Unstructured
	listResult *unstructured.UnstructuredList
	logs       string
	metrics    []k8s.PodMetrics
	contexts   []k8s.ContextInfo
	version    string
	info       *k8s.ClusterInfo
	err        error

	lastNamespace    string
	lastResourceType string
	lastName         string
	lastReplicas     int32
	lastContainer    string
	lastLogOpts      k8s.LogOptions
	lastListOpts     k8s.ListOptions
	deleted          bool
	switchedTo       string
	namespaceSetTo   string
}

func (s *stubClient) Get(_ context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error) {
	s.lastNamespace, s.lastResourceType, s.lastName = namespace, resourceType, name
	return s.getObj, s.err
}

func (s *stubClient) List(_ context.Context, namespace, resourceType string, opts k8s.ListOptions) (*unstructured.UnstructuredList, error) {
	s.lastNamespace, s.lastResourceType, s.lastListOpts = namespace, resourceType, opts
	return s.listResult, s.err
}

func (s *stubClient) Describe(_ context.Context, namespace, resourceType, name string) (*k8s.ResourceDescription, error) {
	s.lastNamespace, s.lastResourceType, s.lastName = namespace, resourceType, name
	if s.err != nil {
		return nil, s.err
	}
	return &k8s.ResourceDescription{Resource: s.getObj}, nil
}

func (s *stubClient) Delete(_ context.Context, namespace, resourceType, name string) error {
	s.lastNamespace, s.lastResourceType, s.lastName = namespace, resourceType, name
	s.deleted = true
	return s.err
}

func (s *stubClient) Scale(_ context.Context, namespace, resourceType, name string, replicas int32) error {
	s.lastNamespace, s.lastResourceType, s.lastName, s.lastReplicas = namespace, resourceType, name, replicas
	return s.err
}

func (s *stubClient) GetLogs(_ context.Context, namespace, podName, containerName string, opts k8s.LogOptions) (string, error) {
	s.lastNamespace, s.lastName, s.lastContainer, s.lastLogOpts = namespace, podName, containerName, opts
	return s.logs, s.err
}

func (s *stubClient) TopPods(_ context.Context, namespace string) ([]k8s.PodMetrics, error) {
	s.lastNamespace = namespace
	return s.metrics, s.err
}

func (s *stubClient) ListContexts(context.Context) ([]k8s.ContextInfo, error) {
	return s.contexts, s.err
}

func (s *stubClient) CurrentContext() string { return "staging" }

func (s *stubClient) SwitchContext(_ context.Context, name string) error {
	s.switchedTo = name
	return s.err
}

func (s *stubClient) SetNamespace(_ context.Context, name string) error {
	s.namespaceSetTo = name
	return s.err
}

func (s *stubClient) ServerVersion(context.Context) (string, error) {
	return s.version, s.err
}

func (s *stubClient) ClusterInfo(context.Context) (*k8s.ClusterInfo, error) {
	return s.info, s.err
}

func newTranslator(stub *stubClient) *Translator {
	tr := NewTranslator(stub, nil)
	tr.now = func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }
	return tr
}

func podListItem(name, phase string, age time.Duration) unstructured.Unstructured {
	created := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC).Add(-age)
	item := unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   map[string]any{"name": name},
		"status":     map[string]any{"phase": phase},
	}}
	item.SetCreationTimestamp(metav1.NewTime(created))
	return item
}

func TestRun_UnsupportedVerb(t *testing.T) {
	tr := newTranslator(&stubClient{})

	_, err := tr.Run(context.Background(), "apply", []string{"-f", "x.yaml"})

	require.Error(t, err)
	assert.True(t, errdefs.IsUnsupportedCommandError(err))
}

func TestRun_GetSingle(t *testing.T) {
	stub := &stubClient{getObj: &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   map[string]any{"name": "web-0"},
	}}}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "get", []string{"pod", "web-0", "-n", "prod"})

	require.NoError(t, err)
	assert.Equal(t, "prod", stub.lastNamespace)
	assert.Equal(t, "pod", stub.lastResourceType)
	assert.Equal(t, "web-0", stub.lastName)
	assert.Contains(t, out, "kind: Pod")
	assert.Contains(t, out, "name: web-0")
}

func TestRun_GetList(t *testing.T) {
	stub := &stubClient{listResult: &unstructured.UnstructuredList{Items: []unstructured.Unstructured{
		podListItem("web-0", "Running", 45*time.Minute),
		podListItem("web-1", "Pending", 50*time.Hour),
	}}}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "get", []string{"pods"})

	require.NoError(t, err)
	assert.Contains(t, out, "NAME      STATUS    AGE")
	assert.Contains(t, out, "web-0     Running   45m")
	assert.Contains(t, out, "web-1     Pending   2d")
}

func TestRun_GetList_NamespaceEqualsFlag(t *testing.T) {
	stub := &stubClient{listResult: &unstructured.UnstructuredList{}}
	tr := newTranslator(stub)

	_, err := tr.Run(context.Background(), "get", []string{"pods", "--namespace=prod"})

	require.NoError(t, err)
	assert.Equal(t, "prod", stub.lastNamespace)
}

func TestRun_GetList_Selector(t *testing.T) {
	stub := &stubClient{listResult: &unstructured.UnstructuredList{}}
	tr := newTranslator(stub)

	_, err := tr.Run(context.Background(), "get", []string{"pods", "-l", "app=web"})

	require.NoError(t, err)
	assert.Equal(t, "app=web", stub.lastListOpts.LabelSelector)
}

func TestRun_GetList_Empty(t *testing.T) {
	stub := &stubClient{listResult: &unstructured.UnstructuredList{}}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "get", []string{"pods"})

	require.NoError(t, err)
	assert.Equal(t, "No resources found\n", out)
}

func TestRun_Describe(t *testing.T) {
	stub := &stubClient{getObj: &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata":   map[string]any{"name": "web-0"},
	}}}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "describe", []string{"pod", "web-0", "-n", "prod"})

	require.NoError(t, err)
	assert.Equal(t, "prod", stub.lastNamespace)
	assert.Equal(t, "web-0", stub.lastName)
	assert.Contains(t, out, "kind: Pod")
}

func TestRun_DescribeList(t *testing.T) {
	stub := &stubClient{listResult: &unstructured.UnstructuredList{Items: []unstructured.Unstructured{
		podListItem("web-0", "Running", 45*time.Minute),
	}}}
	tr := newTranslator(stub)

	// "describe type" without a name lists the type, like get.
	out, err := tr.Run(context.Background(), "describe", []string{"pods"})

	require.NoError(t, err)
	assert.Equal(t, "pods", stub.lastResourceType)
	assert.Contains(t, out, "NAME      STATUS    AGE")
	assert.Contains(t, out, "web-0     Running   45m")
}

func TestRun_Describe_MissingType(t *testing.T) {
	tr := newTranslator(&stubClient{})

	_, err := tr.Run(context.Background(), "describe", nil)

	assert.True(t, errdefs.IsValidationError(err))
}

func TestRun_Delete(t *testing.T) {
	stub := &stubClient{}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "delete", []string{"pod", "web-0"})

	require.NoError(t, err)
	assert.True(t, stub.deleted)
	assert.Equal(t, "pod \"web-0\" deleted\n", out)
}

func TestRun_Scale(t *testing.T) {
	stub := &stubClient{}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "scale", []string{"deployment/api", "--replicas=5"})

	require.NoError(t, err)
	assert.Equal(t, "deployment", stub.lastResourceType)
	assert.Equal(t, "api", stub.lastName)
	assert.Equal(t, int32(5), stub.lastReplicas)
	assert.Contains(t, out, "scaled to 5 replicas")
}

func TestRun_Scale_NonIntegerReplicas(t *testing.T) {
	tr := newTranslator(&stubClient{})

	_, err := tr.Run(context.Background(), "scale", []string{"deployment/api", "--replicas=lots"})

	require.Error(t, err)
	assert.True(t, errdefs.IsValidationError(err))
}

func TestRun_Scale_MissingReplicas(t *testing.T) {
	tr := newTranslator(&stubClient{})

	_, err := tr.Run(context.Background(), "scale", []string{"deployment/api"})

	assert.True(t, errdefs.IsValidationError(err))
}

func TestRun_Scale_BadTarget(t *testing.T) {
	tr := newTranslator(&stubClient{})

	_, err := tr.Run(context.Background(), "scale", []string{"deployment", "--replicas=2"})

	assert.True(t, errdefs.IsValidationError(err))
}

func TestRun_Logs(t *testing.T) {
	stub := &stubClient{logs: "line1\nline2\n"}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "logs", []string{"web-0", "-c", "app", "--tail=50", "--previous"})

	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", out)
	assert.Equal(t, "web-0", stub.lastName)
	assert.Equal(t, "app", stub.lastContainer)
	require.NotNil(t, stub.lastLogOpts.TailLines)
	assert.Equal(t, int64(50), *stub.lastLogOpts.TailLines)
	assert.True(t, stub.lastLogOpts.Previous)
}

func TestRun_Top(t *testing.T) {
	stub := &stubClient{metrics: []k8s.PodMetrics{
		{Name: "web-0", CPU: "250m", Memory: "64Mi"},
	}}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "top", []string{"pods"})

	require.NoError(t, err)
	assert.Contains(t, out, "NAME      CPU       MEMORY")
	assert.Contains(t, out, "web-0     250m      64Mi")
}

func TestRun_Top_NodesUnsupported(t *testing.T) {
	tr := newTranslator(&stubClient{})

	_, err := tr.Run(context.Background(), "top", []string{"nodes"})

	assert.True(t, errdefs.IsUnsupportedResourceError(err))
}

func TestRun_ConfigCurrentContext(t *testing.T) {
	tr := newTranslator(&stubClient{})

	out, err := tr.Run(context.Background(), "config", []string{"current-context"})

	require.NoError(t, err)
	assert.Equal(t, "staging\n", out)
}

func TestRun_ConfigUseContext(t *testing.T) {
	stub := &stubClient{}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "config", []string{"use-context", "prod"})

	require.NoError(t, err)
	assert.Equal(t, "prod", stub.switchedTo)
	assert.Contains(t, out, `Switched to context "prod"`)
}

func TestRun_ConfigUnknownSubcommand(t *testing.T) {
	tr := newTranslator(&stubClient{})

	_, err := tr.Run(context.Background(), "config", []string{"view"})

	assert.True(t, errdefs.IsUnsupportedCommandError(err))
}

func TestRun_Version(t *testing.T) {
	stub := &stubClient{version: "v1.30.2"}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "version", nil)

	require.NoError(t, err)
	assert.Equal(t, "v1.30.2", out)
}

func TestRun_ClusterInfo(t *testing.T) {
	stub := &stubClient{info: &k8s.ClusterInfo{
		Host:      "https://api.example.com:6443",
		Version:   "v1.30.2",
		Context:   "staging",
		Namespace: "default",
	}}
	tr := newTranslator(stub)

	out, err := tr.Run(context.Background(), "cluster-info", nil)

	require.NoError(t, err)
	assert.Contains(t, out, "https://api.example.com:6443")
	assert.Contains(t, out, "v1.30.2")
}

func TestParseArgs_UnknownFlag(t *testing.T) {
	tr := newTranslator(&stubClient{})

	_, err := tr.Run(context.Background(), "get", []string{"pods", "--watch"})

	assert.True(t, errdefs.IsValidationError(err))
}
