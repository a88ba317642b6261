package repositories

var CreateOrFindSupplier = (*SupplierRepository).createOrFind
