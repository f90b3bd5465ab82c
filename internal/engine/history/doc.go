// Package history provides undo and redo for page documents.
//
// Each edit is a Command that captured its "before" state when it was
// built. History keeps the executed commands in one list with a cursor:
//
//	h := history.NewHistory(500) // 0 keeps every entry
//
//	h.Execute(cmd) // run cmd, drop the future, append cmd
//	h.Undo()       // move the cursor back over the newest past entry
//	h.Redo()       // move it forward over the next future entry
//
// Undo and Redo with nothing to do return nil. A command whose Execute
// fails is not recorded, and one whose Undo or Redo fails stays where it
// was.
//
// Several commands can be recorded as one entry:
//
//	err := h.Transaction("Apply theme", func() error {
//	    if err := h.Execute(bg); err != nil {
//	        return err
//	    }
//	    return h.Execute(text)
//	})
//
// A failing transaction undoes what it executed.
package history
