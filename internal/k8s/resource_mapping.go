package k8s

import (
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/kubeops-ai/kubeops/internal/errdefs"
)

// builtinResourceAliases maps the accepted spellings of each resource
// type (plural, singular, kubectl short name) to its group/version/
// resource coordinates.
func builtinResourceAliases() map[string]schema.GroupVersionResource {
	return map[string]schema.GroupVersionResource{
		// Core/v1 resources
		"pods":                   {Group: "", Version: "v1", Resource: "pods"},
		"pod":                    {Group: "", Version: "v1", Resource: "pods"},
		"po":                     {Group: "", Version: "v1", Resource: "pods"},
		"services":               {Group: "", Version: "v1", Resource: "services"},
		"service":                {Group: "", Version: "v1", Resource: "services"},
		"svc":                    {Group: "", Version: "v1", Resource: "services"},
		"nodes":                  {Group: "", Version: "v1", Resource: "nodes"},
		"node":                   {Group: "", Version: "v1", Resource: "nodes"},
		"no":                     {Group: "", Version: "v1", Resource: "nodes"},
		"namespaces":             {Group: "", Version: "v1", Resource: "namespaces"},
		"namespace":              {Group: "", Version: "v1", Resource: "namespaces"},
		"ns":                     {Group: "", Version: "v1", Resource: "namespaces"},
		"configmaps":             {Group: "", Version: "v1", Resource: "configmaps"},
		"configmap":              {Group: "", Version: "v1", Resource: "configmaps"},
		"cm":                     {Group: "", Version: "v1", Resource: "configmaps"},
		"secrets":                {Group: "", Version: "v1", Resource: "secrets"},
		"secret":                 {Group: "", Version: "v1", Resource: "secrets"},
		"events":                 {Group: "", Version: "v1", Resource: "events"},
		"event":                  {Group: "", Version: "v1", Resource: "events"},
		"ev":                     {Group: "", Version: "v1", Resource: "events"},
		"endpoints":              {Group: "", Version: "v1", Resource: "endpoints"},
		"ep":                     {Group: "", Version: "v1", Resource: "endpoints"},
		"persistentvolumes":      {Group: "", Version: "v1", Resource: "persistentvolumes"},
		"persistentvolume":       {Group: "", Version: "v1", Resource: "persistentvolumes"},
		"pv":                     {Group: "", Version: "v1", Resource: "persistentvolumes"},
		"persistentvolumeclaims": {Group: "", Version: "v1", Resource: "persistentvolumeclaims"},
		"persistentvolumeclaim":  {Group: "", Version: "v1", Resource: "persistentvolumeclaims"},
		"pvc":                    {Group: "", Version: "v1", Resource: "persistentvolumeclaims"},
		"serviceaccounts":        {Group: "", Version: "v1", Resource: "serviceaccounts"},
		"serviceaccount":         {Group: "", Version: "v1", Resource: "serviceaccounts"},
		"sa":                     {Group: "", Version: "v1", Resource: "serviceaccounts"},

		// Apps/v1 resources
		"deployments":  {Group: "apps", Version: "v1", Resource: "deployments"},
		"deployment":   {Group: "apps", Version: "v1", Resource: "deployments"},
		"deploy":       {Group: "apps", Version: "v1", Resource: "deployments"},
		"replicasets":  {Group: "apps", Version: "v1", Resource: "replicasets"},
		"replicaset":   {Group: "apps", Version: "v1", Resource: "replicasets"},
		"rs":           {Group: "apps", Version: "v1", Resource: "replicasets"},
		"daemonsets":   {Group: "apps", Version: "v1", Resource: "daemonsets"},
		"daemonset":    {Group: "apps", Version: "v1", Resource: "daemonsets"},
		"ds":           {Group: "apps", Version: "v1", Resource: "daemonsets"},
		"statefulsets": {Group: "apps", Version: "v1", Resource: "statefulsets"},
		"statefulset":  {Group: "apps", Version: "v1", Resource: "statefulsets"},
		"sts":          {Group: "apps", Version: "v1", Resource: "statefulsets"},

		// Batch resources
		"jobs":     {Group: "batch", Version: "v1", Resource: "jobs"},
		"job":      {Group: "batch", Version: "v1", Resource: "jobs"},
		"cronjobs": {Group: "batch", Version: "v1", Resource: "cronjobs"},
		"cronjob":  {Group: "batch", Version: "v1", Resource: "cronjobs"},
		"cj":       {Group: "batch", Version: "v1", Resource: "cronjobs"},

		// Networking resources
		"ingresses": {Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"},
		"ingress":   {Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"},
		"ing":       {Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"},

		// RBAC resources
		"roles":               {Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "roles"},
		"role":                {Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "roles"},
		"rolebindings":        {Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "rolebindings"},
		"rolebinding":         {Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "rolebindings"},
		"clusterroles":        {Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "clusterroles"},
		"clusterrole":         {Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "clusterroles"},
		"clusterrolebindings": {Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "clusterrolebindings"},
		"clusterrolebinding":  {Group: "rbac.authorization.k8s.io", Version: "v1", Resource: "clusterrolebindings"},
	}
}

// clusterScopedResources lists resource plurals that ignore the
// namespace argument on get/list/delete.
var clusterScopedResources = map[string]bool{
	"nodes":               true,
	"namespaces":          true,
	"persistentvolumes":   true,
	"clusterroles":        true,
	"clusterrolebindings": true,
}

// scalableResources lists resource plurals that accept a replica count.
var scalableResources = map[string]bool{
	"deployments":  true,
	"replicasets":  true,
	"statefulsets": true,
}

// resolveResourceType maps a user-supplied resource type to its GVR.
// Matching is case-insensitive.
func resolveResourceType(aliases map[string]schema.GroupVersionResource, resourceType string) (schema.GroupVersionResource, error) {
	gvr, ok := aliases[strings.ToLower(strings.TrimSpace(resourceType))]
	if !ok {
		return schema.GroupVersionResource{}, &errdefs.UnsupportedResourceError{ResourceType: resourceType}
	}
	return gvr, nil
}

// isClusterScoped reports whether the resolved resource ignores
// namespaces.
func isClusterScoped(gvr schema.GroupVersionResource) bool {
	return clusterScopedResources[gvr.Resource]
}

// isScalable reports whether the resolved resource supports replica
// scaling.
func isScalable(gvr schema.GroupVersionResource) bool {
	return scalableResources[gvr.Resource]
}
