package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dataPath, layoutName, outputPath = "", "dashboard", ""
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeData(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScriptCommand(t *testing.T) {
	path := writeData(t, `{"barChartData": {"labels": ["A", "B"], "data": [10, 20]}}`)
	out, err := runCmd(t, "script", "--data", path)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	for _, want := range []string{
		`var barChartData = {"labels":["A","B"],"data":[10,20]};`,
		`document.getElementById("stockBarChart")`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Count(out, "new Chart(") != 1 {
		t.Fatalf("expected exactly one chart:\n%s", out)
	}
}

func TestScriptCommand_NullGlobal(t *testing.T) {
	path := writeData(t, `{"barChartData": null}`)
	out, err := runCmd(t, "script", "--data", path)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if !strings.Contains(out, `var barChartData = {"labels":[],"data":[]};`) {
		t.Fatalf("expected empty global:\n%s", out)
	}
	if strings.Count(out, "new Chart(") != 1 {
		t.Fatalf("null global is still defined:\n%s", out)
	}
	if strings.Contains(out, "null") {
		t.Fatalf("null leaked into output:\n%s", out)
	}
}

func TestScriptCommand_LayoutWithoutMount(t *testing.T) {
	path := writeData(t, `{"barChartData": {"labels": ["A"], "data": [1]}}`)
	out, err := runCmd(t, "script", "--data", path, "--layout", "vendor")
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	if strings.Contains(out, "new Chart(") {
		t.Fatalf("vendor layout has no stock mount:\n%s", out)
	}
}

func TestScriptCommand_UnknownLayout(t *testing.T) {
	path := writeData(t, `{}`)
	if _, err := runCmd(t, "script", "--data", path, "--layout", "nope"); err == nil {
		t.Fatalf("expected unknown layout error")
	}
}

func TestXLSXCommand(t *testing.T) {
	path := writeData(t, `{"pieChartData": {"labels": ["Acme"], "data": [3]}}`)
	target := filepath.Join(t.TempDir(), "out.xlsx")
	if _, err := runCmd(t, "xlsx", "--data", path, "-o", target); err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected workbook written, err=%v", err)
	}
}
