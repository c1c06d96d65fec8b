// Package linedit implements an interactive, UTF-8 aware line editor for
// POSIX terminals: raw-mode input, history, tab completion, multiline
// continuation, syntax highlighting via a pluggable tokenizer, and
// selection/clipboard editing.
//
// linedit does not itself know anything about the language being edited.
// Syntax coloring, autocompletion candidates, and the rule for when to
// continue onto another line are all supplied by the embedder through the
// Tokenizer, Completer and MultilineFunc callbacks; linedit only owns the
// terminal, the buffer, and the keypress state machine.
package linedit
