package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rmellor/go-whitted-raytracer/pkg/geometry"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "yaml"
	FilePath    string `json:"filePath"`    // Path to YAML file (yaml type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// BuiltinScene pairs a catalog entry with its constructor
type BuiltinScene struct {
	Info  SceneInfo
	Build func(cameraOverrides ...geometry.CameraConfig) *World
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []BuiltinScene {
	return []BuiltinScene{
		{
			Info: SceneInfo{
				ID:          "default",
				Name:        "Default Scene",
				DisplayName: "Default Scene",
				Description: "Three shiny spheres over a checkered floor",
				Group:       "Built-in Scenes",
				Type:        "builtin",
			},
			Build: NewDefaultScene,
		},
		{
			Info: SceneInfo{
				ID:          "mirrors",
				Name:        "Facing Mirrors",
				DisplayName: "Facing Mirrors",
				Description: "Two mirrored spheres reflecting each other",
				Group:       "Built-in Scenes",
				Type:        "builtin",
			},
			Build: NewMirrorsScene,
		},
		{
			Info: SceneInfo{
				ID:          "glass",
				Name:        "Glass Sphere",
				DisplayName: "Glass Sphere",
				Description: "Refraction through a glass sphere",
				Group:       "Built-in Scenes",
				Type:        "builtin",
			},
			Build: NewGlassScene,
		},
		{
			Info: SceneInfo{
				ID:          "triangle-mesh",
				Name:        "Triangle Meshes",
				DisplayName: "Triangle Meshes",
				Description: "Scene showcasing triangle mesh geometry",
				Group:       "Built-in Scenes",
				Type:        "builtin",
			},
			Build: NewTriangleMeshScene,
		},
	}
}

// CreateScene builds a world by scene ID. Unknown IDs fall back to YAML
// scene files, first as a literal path and then under the scenes directory.
func CreateScene(id string, cameraOverrides ...geometry.CameraConfig) (*World, error) {
	for _, builtin := range BuiltinScenes() {
		if builtin.Info.ID == id {
			return builtin.Build(cameraOverrides...), nil
		}
	}

	if _, err := os.Stat(id); err == nil {
		return loadYAMLWithOverrides(id, cameraOverrides)
	}
	for _, dir := range sceneDirs() {
		path := filepath.Join(dir, id+".yaml")
		if _, err := os.Stat(path); err == nil {
			return loadYAMLWithOverrides(path, cameraOverrides)
		}
	}

	return nil, fmt.Errorf("unknown scene %q", id)
}

func loadYAMLWithOverrides(path string, cameraOverrides []geometry.CameraConfig) (*World, error) {
	world, err := LoadYAMLFile(path)
	if err != nil {
		return nil, err
	}
	world.ApplyCameraOverrides(cameraOverrides...)
	return world, nil
}

// sceneDirs lists the directories searched for YAML scene files
func sceneDirs() []string {
	return []string{"scenes", "../scenes"}
}

// ResolveScenePath resolves a scene ID or path to a YAML scene file on
// disk, following the same search order as CreateScene. Builtin IDs and
// unknown names report false.
func ResolveScenePath(id string) (string, bool) {
	for _, builtin := range BuiltinScenes() {
		if builtin.Info.ID == id {
			return "", false
		}
	}

	if _, err := os.Stat(id); err == nil {
		return id, true
	}
	for _, dir := range sceneDirs() {
		path := filepath.Join(dir, id+".yaml")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// ListYAMLScenes scans the scenes directory and returns discovered YAML scenes
func ListYAMLScenes() ([]SceneInfo, error) {
	var scenesDir string
	for _, path := range sceneDirs() {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(scenesDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseYAMLMetadata(filePath)
		if err != nil {
			// Skip unreadable files but keep processing the rest
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseYAMLMetadata extracts metadata from scene file header comments.
// The header is a run of "#" comment lines before the first document
// line, carrying "Scene:", "Description:" and "Group:" entries.
func ParseYAMLMetadata(filePath string) (SceneInfo, error) {
	// Extract filename without extension for fallback values
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Description: "",
		Group:       "Scene Files",
		Type:        "yaml",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at the first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		if strings.HasPrefix(line, "# ") {
			content := strings.TrimPrefix(line, "# ")

			if strings.HasPrefix(content, "Scene:") {
				sceneInfo.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
			} else if strings.HasPrefix(content, "Description:") {
				sceneInfo.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
			} else if strings.HasPrefix(content, "Group:") {
				sceneInfo.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
			}
		}
	}

	sceneInfo.DisplayName = sceneInfo.Name

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns both built-in and YAML scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, builtin := range BuiltinScenes() {
		allScenes = append(allScenes, builtin.Info)
	}

	yamlScenes, err := ListYAMLScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list YAML scenes: %w", err)
	}
	allScenes = append(allScenes, yamlScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Create ordered groups (Built-in first, then alphabetical)
	var groupNames []string
	for groupName := range groupMap {
		if groupName != "Built-in Scenes" {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap["Built-in Scenes"]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   "Built-in Scenes",
			Scenes: builtInGroup,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
