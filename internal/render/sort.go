package render

import (
	"bytes"
	"sort"

	"gopkg.in/yaml.v3"
)

// kindWeights orders manifest kinds so that resources other manifests depend
// on are applied first: namespace before RBAC, RBAC before configuration,
// configuration before workloads.
var kindWeights = map[string]int{
	"Namespace":             0,
	"ResourceQuota":         1,
	"LimitRange":            1,
	"ServiceAccount":        2,
	"Role":                  3,
	"ClusterRole":           3,
	"RoleBinding":           4,
	"ClusterRoleBinding":    4,
	"ConfigMap":             5,
	"Secret":                5,
	"PersistentVolumeClaim": 6,
	"Service":               7,
	"Deployment":            8,
	"StatefulSet":           8,
	"DaemonSet":             8,
	"Job":                   8,
	"CronJob":               8,
	"HorizontalPodAutoscaler": 9,
	"Ingress":                 9,
	"Route":                   9,
}

// defaultKindWeight places unknown kinds after configuration but before
// workloads, preserving their relative input order.
const defaultKindWeight = 6

// kindWeight returns the apply-order weight for a manifest kind.
func kindWeight(kind string) int {
	if w, ok := kindWeights[kind]; ok {
		return w
	}
	return defaultKindWeight
}

// manifestKind extracts the kind of the first YAML document in body.
func manifestKind(body []byte) string {
	var doc struct {
		Kind string `yaml:"kind"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&doc); err != nil {
		return ""
	}
	return doc.Kind
}

// SortManifests orders manifests into cluster apply order. The sort is stable:
// manifests of the same kind weight keep their input order.
func SortManifests(manifests []Manifest) {
	sort.SliceStable(manifests, func(i, j int) bool {
		return kindWeight(manifestKind(manifests[i].Body)) < kindWeight(manifestKind(manifests[j].Body))
	})
}
