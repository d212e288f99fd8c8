package errors

import "errors"

// ErrOptimisticLock versioned update lost: the row changed since it was read
var ErrOptimisticLock = errors.New("registro modificado por outra operação, recarregue e tente novamente")

// ErrConditionNotMet conditional update matched no row
var ErrConditionNotMet = errors.New("registro não atende à condição da atualização")
