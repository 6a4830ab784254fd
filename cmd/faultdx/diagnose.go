package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/faultdx/internal/diagnosis"
	"github.com/fyrsmithlabs/faultdx/internal/troubleshoot"
)

const (
	promptDescription = "Por favor, describe el problema con tus propias palabras: "
	msgInvalidAnswer  = "Respuesta no válida. Intente de nuevo."
)

// errInputClosed is returned when stdin ends before the conversation does.
var errInputClosed = errors.New("input closed before the diagnosis finished")

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Run an interactive diagnosis in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(quietLogging(cfg.Logging), nil)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			svc, err := newLocalService(cfg, logger)
			if err != nil {
				return err
			}
			return runConversation(cmd.Context(), svc, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runConversation drives one diagnosis over a line-oriented terminal.
func runConversation(ctx context.Context, svc *troubleshoot.Service, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	readLine := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", errInputClosed
		}
		return scanner.Text(), nil
	}

	fmt.Fprintln(out, "\n--- Asistente de Diagnóstico ---")

	var step *diagnosis.Step
	for step == nil {
		description, err := readLine(promptDescription)
		if err != nil {
			return err
		}
		step, err = svc.StartDiagnosis(ctx, description)
		if errors.Is(err, diagnosis.ErrEmptyDescription) {
			continue
		}
		if err != nil {
			return err
		}
	}

	if len(step.ExtractedAttributes) > 0 {
		fmt.Fprintln(out, "\nEntendido. He identificado las siguientes características del problema:")
		for _, a := range step.ExtractedAttributes {
			fmt.Fprintf(out, "  - %s\n", a)
		}
	} else {
		fmt.Fprintln(out, "\nNo he podido extraer pistas iniciales. Empezaré con preguntas generales.")
	}

	if step.Kind == diagnosis.KindQuestion {
		fmt.Fprintln(out, "\nAhora haré algunas preguntas para confirmar y precisar el diagnóstico. Responde con 'si' o 'no'.")
	}

	for step.Kind == diagnosis.KindQuestion {
		answer, err := readLine(fmt.Sprintf("\n❓ %s (si/no): ", step.Question))
		if err != nil {
			return err
		}
		next, err := svc.ContinueDiagnosis(ctx, step.State, answer)
		if errors.Is(err, diagnosis.ErrInvalidAnswer) {
			fmt.Fprintln(out, msgInvalidAnswer)
			continue
		}
		if err != nil {
			return err
		}
		step = next
	}

	printVerdict(out, step)
	return nil
}

func printVerdict(out io.Writer, step *diagnosis.Step) {
	fmt.Fprintln(out, "\n------------------ Diagnóstico Final ------------------")
	switch step.Kind {
	case diagnosis.KindSolved:
		f := step.Fault
		fmt.Fprintf(out, "El problema más probable es: %s\n", f.Name)
		if len(f.Causes) > 0 {
			fmt.Fprintf(out, "Causas posibles: %s\n", strings.Join(f.Causes, "; "))
		}
		fmt.Fprintf(out, "Solución sugerida: %s\n", strings.Join(f.Solutions, "; "))
		fmt.Fprintf(out, "(Referencia del manual: %s)\n", f.Reference)
	case diagnosis.KindAmbiguous:
		fmt.Fprintln(out, step.Message)
		for _, f := range step.Faults {
			fmt.Fprintf(out, "  - %s\n", f.Name)
		}
	default:
		fmt.Fprintln(out, step.Message)
	}
}
